package handler

import (
	"errors"
	"net/http"

	"github.com/freeeve/salvo/internal/service"
)

// WeaponHandler exposes the weapon catalog.
type WeaponHandler struct {
	catalog *service.CatalogService
}

// NewWeaponHandler creates a WeaponHandler.
func NewWeaponHandler(catalog *service.CatalogService) *WeaponHandler {
	return &WeaponHandler{catalog: catalog}
}

// ListWeapons handles GET /api/v1/weapons
func (h *WeaponHandler) ListWeapons(w http.ResponseWriter, r *http.Request) {
	weapons, err := h.catalog.List(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, weapons)
}

// GetWeapon handles GET /api/v1/weapons/{name}
func (h *WeaponHandler) GetWeapon(w http.ResponseWriter, r *http.Request) {
	rec, err := h.catalog.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownWeapon) {
			writeError(w, http.StatusNotFound, "weapon not found")
			return
		}
		writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
