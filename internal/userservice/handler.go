package userservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/inkwell-app/inkwell/internal/common"
)

var (
	ErrAuthenticationFailure = fmt.Errorf("invalid credentials")
)

func NewUserService(db *sql.DB, tokens *TokenManager) *UserService {
	return &UserService{
		m:      newUserModel(db),
		tokens: tokens,
	}
}

// RegisterUser creates a new account and returns the user together with a
// signed identity token. The raw password is hashed before it is stored.
func (s *UserService) RegisterUser(ctx context.Context, email, password, firstName, lastName string) (*User, string, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	validatePassword(v, password)
	validateName(v, firstName, "first_name")
	validateName(v, lastName, "last_name")
	if !v.Valid() {
		return nil, "", v.ValidationError()
	}

	u := User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}

	if err := u.Password.set(password); err != nil {
		return nil, "", err
	}

	if err := s.m.insertUser(ctx, &u); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(&u)
	if err != nil {
		return nil, "", err
	}

	return &u, token, nil
}

// LoginUser verifies the credentials and issues a fresh identity token. An
// unknown email and a wrong password are indistinguishable to the caller.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*User, string, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	v.Check(password != "", "password", "must be provided")
	if !v.Valid() {
		return nil, "", v.ValidationError()
	}

	user, err := s.m.getUserByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, "", ErrAuthenticationFailure
		default:
			return nil, "", err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", ErrAuthenticationFailure
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Authenticate resolves a bearer token to a user. The token only identifies
// the principal; the authoritative row is always loaded from the store.
func (s *UserService) Authenticate(ctx context.Context, token string) (*User, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.m.getUserByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrInvalidToken
		default:
			return nil, err
		}
	}

	return user, nil
}

// GetProfile returns the public profile of a user including derived blog and
// comment counts.
func (s *UserService) GetProfile(ctx context.Context, id int) (*Profile, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	blogs, comments, err := s.m.getActivityCounts(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Profile{
		ID:             user.ID,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
		BlogCount:      blogs,
		CommentCount:   comments,
	}, nil
}

type UpdateProfileRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profile_picture"`
}

// UpdateProfile applies the non-nil fields to the user's profile. The email
// is the immutable identity and cannot be changed here.
func (s *UserService) UpdateProfile(ctx context.Context, id int, req *UpdateProfileRequest) (*Profile, error) {
	user, err := s.m.getUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}

	v := common.NewValidator()
	validateName(v, user.FirstName, "first_name")
	validateName(v, user.LastName, "last_name")
	validateBio(v, user.Bio)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.m.updateProfile(ctx, user); err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, id)
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}
