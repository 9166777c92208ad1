package main

import (
	"errors"
	"net/http"

	"github.com/inkwell-app/inkwell/internal/blogservice"
	"github.com/inkwell-app/inkwell/internal/common"
)

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	var input blogservice.CreateBlogRequest
	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}
	input.UserID = user.ID

	blog, err := app.blogService.CreateBlog(r.Context(), &input)
	if err != nil {
		var validationError common.ValidationError
		switch {
		case errors.As(err, &validationError):
			app.failedValidationErrorResponse(w, r, validationError.Errors)
		case errors.Is(err, blogservice.ErrUserForeignKey):
			app.invalidAuthenticationTokenResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	blog, err := app.blogService.GetBlogByIDAndIncrementView(r.Context(), id)
	if err != nil {
		var validationError common.ValidationError
		switch {
		case errors.As(err, &validationError):
			app.failedValidationErrorResponse(w, r, validationError.Errors)
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateBlogHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input blogservice.UpdateBlogRequest
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}
	input.ID = id
	input.UserID = user.ID

	blog, err := app.blogService.UpdateBlog(r.Context(), &input)
	if err != nil {
		var validationError common.ValidationError
		switch {
		case errors.As(err, &validationError):
			app.failedValidationErrorResponse(w, r, validationError.Errors)
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, common.ErrNotPermitted):
			app.notPermittedErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	paths, err := app.blogService.DeleteBlog(r.Context(), id, user.ID)
	if err != nil {
		var validationError common.ValidationError
		switch {
		case errors.As(err, &validationError):
			app.failedValidationErrorResponse(w, r, validationError.Errors)
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, common.ErrNotPermitted):
			app.notPermittedErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if err := app.imageService.RemoveFiles(paths); err != nil {
		app.logError(r, err)
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "blog successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) isAuthorHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	isAuthor, err := app.blogService.IsAuthor(r.Context(), id, user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"is_author": isAuthor}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getAllBlogsHandler(w http.ResponseWriter, r *http.Request) {
	v := common.NewValidator()
	qs := r.URL.Query()

	f := blogservice.SearchFilters{
		Search: app.readString(qs, "search", ""),
		Tags:   app.readCSV(qs, "tags"),
	}
	f.Page = app.readInt(qs, "page", 0, v)
	f.PageSize = app.readInt(qs, "page_size", 20, v)
	f.Sort = app.readString(qs, "sort_by", "")

	if !v.Valid() {
		app.failedValidationErrorResponse(w, r, v.Errors)
		return
	}

	blogs, metadata, err := app.blogService.GetBlogs(r.Context(), f)
	if err != nil {
		var validationError common.ValidationError
		switch {
		case errors.As(err, &validationError):
			app.failedValidationErrorResponse(w, r, validationError.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs, "metadata": metadata}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getOwnBlogsHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	v := common.NewValidator()
	qs := r.URL.Query()

	f := common.Filters{
		Page:     app.readInt(qs, "page", 0, v),
		PageSize: app.readInt(qs, "page_size", 20, v),
	}

	if !v.Valid() {
		app.failedValidationErrorResponse(w, r, v.Errors)
		return
	}

	blogs, metadata, err := app.blogService.GetBlogsByUserID(r.Context(), user.ID, f)
	if err != nil {
		var validationError common.ValidationError
		switch {
		case errors.As(err, &validationError):
			app.failedValidationErrorResponse(w, r, validationError.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs, "metadata": metadata}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
