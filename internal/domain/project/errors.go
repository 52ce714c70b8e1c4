package project

import "errors"

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrMembershipExists   = errors.New("membership already exists")
)
