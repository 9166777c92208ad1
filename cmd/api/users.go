package main

import (
	"errors"
	"net/http"

	"github.com/inkwell-app/inkwell/internal/common"
	"github.com/inkwell-app/inkwell/internal/userservice"
)

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, token, err := app.userService.RegisterUser(r.Context(), input.Email, input.Password, input.FirstName, input.LastName)
	if err != nil {
		var validationError common.ValidationError
		switch {
		case errors.As(err, &validationError):
			app.failedValidationErrorResponse(w, r, validationError.Errors)
		case errors.Is(err, userservice.ErrDuplicateEmail):
			app.failedValidationErrorResponse(w, r, map[string]string{"email": "a user with this email address already exists"})
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"user": user, "access_token": token}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, token, err := app.userService.LoginUser(r.Context(), input.Email, input.Password)
	if err != nil {
		var validationError common.ValidationError
		switch {
		case errors.As(err, &validationError):
			app.failedValidationErrorResponse(w, r, validationError.Errors)
		case errors.Is(err, userservice.ErrAuthenticationFailure):
			app.invalidCredentialsErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"user": user, "access_token": token}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// logoutUserHandler exists for API symmetry. Identity tokens are stateless,
// so the server keeps nothing to revoke; clients discard the token.
func (app *application) logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{"message": "logged out"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getOwnProfileHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	profile, err := app.userService.GetProfile(r.Context(), user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"profile": profile}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateOwnProfileHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	var input userservice.UpdateProfileRequest
	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	profile, err := app.userService.UpdateProfile(r.Context(), user.ID, &input)
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

	err = app.writeJSON(w, http.StatusOK, envelope{"profile": profile}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getUserProfileHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	profile, err := app.userService.GetProfile(r.Context(), id)
	if err != nil {
		var validationError common.ValidationError
		switch {
		case errors.As(err, &validationError):
			app.failedValidationErrorResponse(w, r, validationError.Errors)
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"profile": profile}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
