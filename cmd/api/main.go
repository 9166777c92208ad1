package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/inkwell-app/inkwell/internal/blogservice"
	"github.com/inkwell-app/inkwell/internal/commentservice"
	"github.com/inkwell-app/inkwell/internal/common"
	"github.com/inkwell-app/inkwell/internal/imageservice"
	"github.com/inkwell-app/inkwell/internal/tagservice"
	"github.com/inkwell-app/inkwell/internal/userservice"
)

type application struct {
	config         *Config
	logger         *slog.Logger
	userService    *userservice.UserService
	blogService    *blogservice.BlogService
	tagService     *tagservice.TagService
	commentService *commentservice.CommentService
	imageService   *imageservice.ImageService
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := common.NewDB(common.DBConfig{
		Host:         cfg.DB.Host,
		Port:         cfg.DB.Port,
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Name:         cfg.DB.Name,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		MaxIdleTime:  15 * time.Minute,
	})
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	store, err := imageservice.NewDiskStore(cfg.Upload.Dir)
	if err != nil {
		logger.Error("failed to prepare the upload directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	tokens := userservice.NewTokenManager(cfg.JWT.Secret, userservice.AccessTokenTime)

	app := &application{
		config:         cfg,
		logger:         logger,
		userService:    userservice.NewUserService(db, tokens),
		blogService:    blogservice.NewBlogService(db),
		tagService:     tagservice.NewTagService(db),
		commentService: commentservice.NewCommentService(db),
		imageService:   imageservice.NewImageService(db, store, cfg.Upload.MaxBytes),
	}

	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
