package main

import (
	"errors"
	"net/http"

	"github.com/inkwell-app/inkwell/internal/common"
	"github.com/inkwell-app/inkwell/internal/tagservice"
)

func (app *application) getAllTagsHandler(w http.ResponseWriter, r *http.Request) {
	tags, err := app.tagService.GetAllTags(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"tags": tags}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getPopularTagsHandler(w http.ResponseWriter, r *http.Request) {
	tags, err := app.tagService.GetPopularTags(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"tags": tags}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) searchTagsHandler(w http.ResponseWriter, r *http.Request) {
	name := app.readString(r.URL.Query(), "name", "")

	tags, err := app.tagService.SearchTags(r.Context(), name)
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

	err = app.writeJSON(w, http.StatusOK, envelope{"tags": tags}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createTagHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	tag, err := app.tagService.CreateTag(r.Context(), input.Name, input.Color)
	if err != nil {
		var validationError common.ValidationError
		switch {
		case errors.As(err, &validationError):
			app.failedValidationErrorResponse(w, r, validationError.Errors)
		case errors.Is(err, tagservice.ErrDuplicateTag):
			app.failedValidationErrorResponse(w, r, map[string]string{"name": "a tag with this name already exists"})
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"tag": tag}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
