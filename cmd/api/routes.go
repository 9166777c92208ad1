package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// auth
	router.HandlerFunc(http.MethodPost, "/v1/auth/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/auth/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/auth/logout", app.requireAuthUser(app.logoutUserHandler))

	// blogs
	router.HandlerFunc(http.MethodGet, "/v1/blogs", app.getAllBlogsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/blogs", app.requireAuthUser(app.createBlogHandler))
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id", app.getBlogHandler)
	router.HandlerFunc(http.MethodPut, "/v1/blogs/:id", app.requireAuthUser(app.updateBlogHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/blogs/:id", app.requireAuthUser(app.deleteBlogHandler))
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id/is-author", app.requireAuthUser(app.isAuthorHandler))

	// comments
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id/comments", app.getCommentsByBlogHandler)
	router.HandlerFunc(http.MethodPost, "/v1/blogs/:id/comments", app.requireAuthUser(app.createCommentHandler))
	router.HandlerFunc(http.MethodPut, "/v1/comments/:id", app.requireAuthUser(app.updateCommentHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/comments/:id", app.requireAuthUser(app.deleteCommentHandler))

	// images
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id/images", app.getImagesByBlogHandler)
	router.HandlerFunc(http.MethodPost, "/v1/blogs/:id/images", app.requireAuthUser(app.uploadImageHandler))
	router.HandlerFunc(http.MethodGet, "/v1/images/:filename", app.serveImageHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/images/:id", app.requireAuthUser(app.deleteImageHandler))

	// tags
	router.HandlerFunc(http.MethodGet, "/v1/tags", app.getAllTagsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/tags/popular", app.getPopularTagsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/tags/search", app.searchTagsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/tags", app.requireAuthUser(app.createTagHandler))

	// users. The caller's own profile and blog list live under /v1/me
	// because httprouter cannot mix a static segment with :id.
	router.HandlerFunc(http.MethodGet, "/v1/me", app.requireAuthUser(app.getOwnProfileHandler))
	router.HandlerFunc(http.MethodPut, "/v1/me", app.requireAuthUser(app.updateOwnProfileHandler))
	router.HandlerFunc(http.MethodGet, "/v1/me/blogs", app.requireAuthUser(app.getOwnBlogsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/:id", app.getUserProfileHandler)
	router.HandlerFunc(http.MethodGet, "/v1/users/:id/comments", app.getCommentsByUserHandler)

	return app.recoverPanic(app.rateLimit(app.logRequest(app.authenticate(router))))
}
