package service

import "errors"

var (
	ErrInvalidGrant  = errors.New("invalid_grant")
	ErrInvalidClient = errors.New("invalid_client")
	ErrUserNotFound  = errors.New("user not found")
)

// Messages returned in failed results. They are shown to end users.
const (
	msgPasswordTooShort        = "Passwords must be at least %d characters."
	msgUserNameRequired        = "User name is required."
	msgUserNameInvalid         = "User name %s is invalid, can only contain letters or digits."
	msgUserNameTaken           = "Name %s is already taken."
	msgPasswordAlreadySet      = "User already has a password set."
	msgExternalLoginTaken      = "A user with that external login already exists."
	msgIncorrectPassword       = "Incorrect password."
	msgNoLocalLogin            = "User does not have a password set."
	msgLoginNotFound           = "The login does not exist."
	msgLastLogin               = "A user must keep at least one login."
	msgExternalLoginIncomplete = "External login data is incomplete."
)
