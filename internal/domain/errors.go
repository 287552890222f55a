package domain

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrLoanNotActive      = errors.New("loan is not active")
	ErrInstallmentPaid    = errors.New("installment is already paid")
	ErrDuplicateIDCard    = errors.New("a customer with this id card already exists")
	ErrDuplicateEmail     = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrMaintenanceActive  = errors.New("a maintenance operation is already in progress")
	ErrNoBackupAvailable  = errors.New("no successful backup available to restore")
)
