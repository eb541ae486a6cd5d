package models

type UploadFileResponse struct {
	FileName     string `json:"fileName"`
	OriginalName string `json:"originalName"`
}

type DownloadFileResponse struct {
	FileName string
	Content  []byte
	Size     int64
	// Hash - хэш содержимого, отдаётся как ETag.
	Hash string
}
