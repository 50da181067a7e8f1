package service

import (
	"errors"

	"github.com/alexanderramin/ganttline/internal/contract"
	"github.com/alexanderramin/ganttline/internal/repository"
)

var (
	// ErrNotFound is returned (wrapped) when a project, task or dependency
	// does not exist.
	ErrNotFound = repository.ErrNotFound
	// ErrInvalidDependency rejects edges that cross projects or close a cycle.
	ErrInvalidDependency = errors.New("invalid dependency")
	// ErrInvalidRequest wraps request validation failures.
	ErrInvalidRequest = contract.ErrInvalidRequest
)
