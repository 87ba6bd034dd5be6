package handler

import (
	"github.com/jmoiron/sqlx"
)

// Handler carries the dependencies of the non-entity endpoints.
type Handler struct {
	db *sqlx.DB
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{db: db}
}
