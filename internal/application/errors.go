package application

import (
	"errors"

	"linkbridge/internal/repository"
)

var (
	ErrStoreUnavailable = repository.ErrStoreUnavailable
	ErrCodeNotFound     = repository.ErrCodeNotFound
	ErrCodeExpired      = repository.ErrCodeExpired

	ErrPrivateDeliveryFailed = errors.New("private delivery failed")
	ErrNoExistingLink        = errors.New("no existing link")
	ErrSendFailed            = errors.New("destination send failed")
)
