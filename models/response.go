package models

type RegisterSuccessResponse struct {
	Message string `json:"message" example:"User berhasil didaftarkan"`
	UserID  string `json:"user_id" example:"507f1f77bcf86cd799439011"`
}

type LoginSuccessResponse struct {
	Message      string `json:"message" example:"Login berhasil"`
	Token        string `json:"token" example:"v2.local.Ft9QcxZhJXEYyb7-bMM..."`
	UserID       string `json:"user_id" example:"507f1f77bcf86cd799439011"`
	Role         string `json:"role" example:"member"`
	IsFirstLogin bool   `json:"is_first_login" example:"true"`
}

type ScanSuccessResponse struct {
	Message       string              `json:"message" example:"Scan berhasil, poin sudah masuk"`
	PointsEarned  int                 `json:"points_earned" example:"3"`
	Collectible   *Collectible        `json:"collectible,omitempty"`
	IsNew         bool                `json:"is_new" example:"true"`
	Progress      *ProgressResponse   `json:"progress,omitempty"`
}

type ProgressResponse struct {
	Current  int  `json:"current" example:"2"`
	Total    int  `json:"total" example:"3"`
	Complete bool `json:"complete" example:"false"`
}

type GenerateQRSuccessResponse struct {
	Message     string `json:"message" example:"QR Code venue berhasil dibuat"`
	QRCodeImage string `json:"qr_code_image" example:"data:image/png;base64,..."`
	ExpiresAt   string `json:"expires_at"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid request body"`
	Details string `json:"details,omitempty" example:"validation failed"`
}

type ValidationErrorResponse struct {
	Error  string `json:"error" example:"Validation failed"`
	Errors string `json:"errors" example:"name: kolom wajib diisi"`
}

type UnauthorizedErrorResponse struct {
	Error string `json:"error" example:"Token tidak valid atau tidak ada"`
}

type ForbiddenErrorResponse struct {
	Error string `json:"error" example:"Akses ditolak. Hanya admin yang dapat mengakses endpoint ini"`
}

type NotFoundErrorResponse struct {
	Error string `json:"error" example:"Venue tidak ditemukan"`
}
