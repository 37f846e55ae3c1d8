package repository

import "errors"

var (
	// ErrNotProjectOwner is returned when the requester does not hold the owner role
	ErrNotProjectOwner = errors.New("requester is not the project owner")
	// ErrAlreadyOwner is returned when the transfer target already holds the owner role
	ErrAlreadyOwner = errors.New("member is already the project owner")
)
