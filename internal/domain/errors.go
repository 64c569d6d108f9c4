package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Almacén de documentos.
	ErrRecordRead      = errors.New("error al leer el registro")
	ErrRecordWrite     = errors.New("error al escribir el registro")
	ErrInvalidDocument = errors.New("documento con campos obligatorios faltantes")

	// Sesión y navegación.
	ErrSessionRevoked = errors.New("sesión cerrada")
	ErrRolePending    = errors.New("rol aún no resuelto")

	// Ciclo de vida de reparaciones.
	ErrInvalidStatus         = errors.New("estado de reparación inválido")
	ErrTransitionCancelled   = errors.New("cambio de estado cancelado por el usuario")
	ErrLifecycleUpdateFailed = errors.New("error al cambiar el estado de la reparación")

	// Escáner.
	ErrInvalidBarcode = errors.New("código de barras inválido")
	ErrScanCancelled  = errors.New("escaneo sin resultado")
	ErrScanPermission = errors.New("permiso de cámara denegado")
)
