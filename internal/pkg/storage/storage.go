package storage

import "github.com/pkg/errors"

//ErrNoObject is returned when object does not exist
var ErrNoObject = errors.New("no object")
