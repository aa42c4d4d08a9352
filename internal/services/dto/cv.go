package dto

type RegisterCVRequest struct {
	OwnerID  string `json:"owner_id"`
	FileName string `json:"file_name" validate:"required,max=255"`
	FilePath string `json:"file_path" validate:"required,max=1024"`
}
