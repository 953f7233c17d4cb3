package config

import "os"

// R2 (Cloudflare S3-compatible) settings for disaster recovery. Only read
// when JWT_SECRET is missing from both config and environment.
type r2Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

func loadR2Config() r2Config {
	cfg := r2Config{
		Endpoint:  os.Getenv("R2_ENDPOINT"),
		AccessKey: os.Getenv("R2_ACCESS_KEY"),
		SecretKey: os.Getenv("R2_SECRET_KEY"),
		Bucket:    os.Getenv("R2_BUCKET"),
		Region:    os.Getenv("R2_REGION"),
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "recycle-db-backups"
	}
	if cfg.Region == "" {
		cfg.Region = "auto"
	}
	return cfg
}
