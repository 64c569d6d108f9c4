package http

// ToErrorResponse traducción de errores para los tests del paquete externo.
var ToErrorResponse = toErrorResponse
