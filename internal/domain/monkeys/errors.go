package monkeys

import "errors"

var (
	// ErrValidation envuelve todo error de campo inválido del modelo.
	ErrValidation = errors.New("invalid input")

	// ErrDuplicateName se dispara al violar la unicidad (name, species).
	// El import hace match sobre "duplicate name" para decidir upsert:
	// mantener el literal en el mensaje.
	ErrDuplicateName = errors.New("duplicate name within species is not allowed")

	// ErrAlreadyExists lo devuelve el create de un backend si el id ya
	// existe (no debería pasar con ids generados, pero se chequea).
	ErrAlreadyExists = errors.New("monkey_id already exists")
)
