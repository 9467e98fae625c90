package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrUserNotFound     = errors.New("usuario no encontrado")
	ErrProductNotFound  = errors.New("producto no encontrado")
	ErrBranchNotFound   = errors.New("sede no encontrada")
	ErrSupplierNotFound = errors.New("proveedor no encontrado")
	ErrBatchNotFound    = errors.New("lote no encontrado")
	ErrUsernameExists   = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrDuplicate        = errors.New("recurso duplicado")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrForbidden        = errors.New("acceso denegado")
	ErrConflict         = errors.New("conflicto con el estado actual")

	// Ledger de stock
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransfer   = errors.New("transferencia inválida")

	// Borrado bloqueado por referencias (stock en sede, usuarios asignados, productos del proveedor).
	ErrReferentialConflict = errors.New("el recurso está referenciado")

	// Persistencia y servicios externos
	ErrVersionConflict = errors.New("la colección fue modificada por otro proceso")
	ErrPersistence     = errors.New("fallo de persistencia")
	ErrExternalService = errors.New("fallo del servicio externo")
)
