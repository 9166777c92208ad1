package main

import (
	"errors"
	"net/http"

	"github.com/inkwell-app/inkwell/internal/common"
)

func (app *application) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	blogID, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input struct {
		Content string `json:"content"`
	}
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	comment, err := app.commentService.CreateComment(r.Context(), blogID, input.Content, user.ID)
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

	err = app.writeJSON(w, http.StatusCreated, envelope{"comment": comment}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateCommentHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input struct {
		Content string `json:"content"`
	}
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	comment, err := app.commentService.UpdateComment(r.Context(), id, input.Content, user.ID)
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

	err = app.writeJSON(w, http.StatusOK, envelope{"comment": comment}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.commentService.DeleteComment(r.Context(), id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, common.ErrNotPermitted):
			app.notPermittedErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "comment successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getCommentsByBlogHandler(w http.ResponseWriter, r *http.Request) {
	blogID, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

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

	comments, metadata, err := app.commentService.GetCommentsByBlogID(r.Context(), blogID, f)
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

	err = app.writeJSON(w, http.StatusOK, envelope{"comments": comments, "metadata": metadata}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getCommentsByUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	comments, err := app.commentService.GetCommentsByUserID(r.Context(), userID)
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

	err = app.writeJSON(w, http.StatusOK, envelope{"comments": comments}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
