package handler

import (
	"net/http"

	"github.com/freeeve/salvo/internal/model"
	"github.com/freeeve/salvo/internal/service"
)

// BoardHandler stores the board each game is played on, so estimate and plan
// requests can refer to it by game id.
type BoardHandler struct {
	boards *service.BoardService
}

// NewBoardHandler creates a BoardHandler.
func NewBoardHandler(boards *service.BoardService) *BoardHandler {
	return &BoardHandler{boards: boards}
}

// PutBoard handles PUT /api/v1/games/{id}/board
func (h *BoardHandler) PutBoard(w http.ResponseWriter, r *http.Request) {
	var board model.BoardSpec
	if err := decodeJSON(r, &board); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.boards.SetBoard(r.Context(), r.PathValue("id"), &board); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBoard handles GET /api/v1/games/{id}/board
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.boards.GetBoard(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// DeleteBoard handles DELETE /api/v1/games/{id}/board
func (h *BoardHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	if err := h.boards.DeleteBoard(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
