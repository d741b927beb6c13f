package http

import (
	"encoding/json"
	"net/http"

	apperrors "hotelbooking/pkg/errors"
)

type ErrorResponse = apperrors.ErrorResponse

type ListResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type CreatedResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// MessageResponse carries an outcome that is not an error, such as a soft duplicate.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	return WriteJSON(w, appErr.StatusCode(), ErrorResponse{
		Success: false,
		Error:   appErr.Message,
	})
}

func WriteList(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, ListResponse{Success: true, Data: data})
}

func WriteCreated(w http.ResponseWriter, id string) error {
	return WriteJSON(w, http.StatusOK, CreatedResponse{Success: true, ID: id})
}

func WriteMessage(w http.ResponseWriter, success bool, message string) error {
	return WriteJSON(w, http.StatusOK, MessageResponse{Success: success, Message: message})
}

func WriteText(w http.ResponseWriter, statusCode int, text string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err := w.Write([]byte(text))
	return err
}
