package handlers

import (
	"errors"
	"net/http"

	"github.com/aurelia-jewels/storefront/app/helpers"
	"github.com/aurelia-jewels/storefront/app/services"
	"github.com/unrolled/render"
)

func writeServiceError(rnd *render.Render, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrAuthRequired):
		_ = rnd.JSON(w, http.StatusUnauthorized, helpers.ErrorResponse{
			Code:    "auth_required",
			Message: "Please sign in to continue.",
		})
	case errors.Is(err, services.ErrNotFound):
		_ = rnd.JSON(w, http.StatusNotFound, helpers.ErrorResponse{
			Code:    "not_found",
			Message: "The requested resource was not found.",
		})
	case errors.Is(err, services.ErrEmptyCart):
		_ = rnd.JSON(w, http.StatusBadRequest, helpers.ErrorResponse{
			Code:    "empty_cart",
			Message: "Your cart is empty. Please add items before proceeding.",
		})
	default:
		_ = rnd.JSON(w, http.StatusBadGateway, helpers.ErrorResponse{
			Code:    "backend_error",
			Message: "Something went wrong. Please try again.",
		})
	}
}

func writeBadRequest(rnd *render.Render, w http.ResponseWriter, message string) {
	_ = rnd.JSON(w, http.StatusBadRequest, helpers.ErrorResponse{
		Code:    "bad_request",
		Message: message,
	})
}
