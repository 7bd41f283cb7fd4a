package web

// User-facing notices. Validation and upload messages live with their
// packages.
const (
	msgNeighborCreated = "Vecino registrado correctamente"
	msgNeighborDeleted = "Vecino eliminado"
	msgVehicleCreated  = "Vehículo agregado"
	msgVehicleDeleted  = "Vehículo eliminado"
	msgPaymentCreated  = "Pago registrado"
	msgPaymentDeleted  = "Pago eliminado"
	msgNotFound        = "No encontrado"
	msgBadRequest      = "Solicitud inválida"
	msgInternalError   = "Error interno del servidor"
	msgUploadTooLarge  = "El archivo es demasiado grande"
)
