package main

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/inkwell-app/inkwell/internal/common"
	"github.com/inkwell-app/inkwell/internal/imageservice"
)

func (app *application) uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	blogID, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, app.imageService.MaxBytes()+4096)

	file, header, err := r.FormFile("image")
	if err != nil {
		app.badRequestErrorResponse(w, r, errors.New("request must contain an image file in the 'image' form field"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}

	img, err := app.imageService.UploadImage(r.Context(), &imageservice.UploadRequest{
		BlogID:       blogID,
		OriginalName: header.Filename,
		ContentType:  contentType,
		Size:         header.Size,
		Body:         file,
		UserID:       user.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, imageservice.ErrEmptyFile),
			errors.Is(err, imageservice.ErrTooLarge),
			errors.Is(err, imageservice.ErrUnsupportedType):
			app.failedValidationErrorResponse(w, r, map[string]string{"image": err.Error()})
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, common.ErrNotPermitted):
			app.notPermittedErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"image": img}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// serveImageHandler streams a stored image by its generated file name. No
// authentication is required; stored names are unguessable.
func (app *application) serveImageHandler(w http.ResponseWriter, r *http.Request) {
	name := app.readStringParam(r, "filename")

	img, err := app.imageService.GetImageByFileName(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	f, err := app.imageService.OpenFile(img)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	defer f.Close()

	contentType := img.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(img.FileName))
	}
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	_, err = io.Copy(w, f)
	if err != nil {
		app.logError(r, err)
	}
}

func (app *application) deleteImageHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.imageService.DeleteImage(r.Context(), id, user.ID)
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

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "image successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getImagesByBlogHandler(w http.ResponseWriter, r *http.Request) {
	blogID, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	images, err := app.imageService.GetImagesByBlogID(r.Context(), blogID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"images": images}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
