package storage

import "os"

const (
	PublicBaseURL = "https://storage.googleapis.com"
	UploadBaseURL = "https://storage.googleapis.com/upload/storage/v1"
	ObjectBaseURL = "https://storage.googleapis.com/storage/v1"
)

type Config struct {
	Bucket        string
	AccessToken   string
	PublicBaseURL string
	UploadBaseURL string
	ObjectBaseURL string
}

func NewConfig() *Config {
	return &Config{
		Bucket:        os.Getenv("STORAGE_BUCKET"),
		AccessToken:   os.Getenv("STORAGE_ACCESS_TOKEN"),
		PublicBaseURL: PublicBaseURL,
		UploadBaseURL: UploadBaseURL,
		ObjectBaseURL: ObjectBaseURL,
	}
}

// Configured reports whether uploads can work at all. The gallery sink treats
// an unconfigured bucket as a normal best-effort failure.
func (c *Config) Configured() bool {
	return c.Bucket != ""
}
