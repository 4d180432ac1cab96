package entity

// IdempotentResponse respuesta guardada para repetir ante un reintento con la misma Idempotency-Key.
// Fingerprint identifica el cuerpo de la petición original; Status 0 = aún en curso.
type IdempotentResponse struct {
	Fingerprint string `json:"fingerprint"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}
