package config

import _ "embed"

// DefaultConfigYAML cấu hình mặc định nhúng trong binary
//
//go:embed default.yaml
var DefaultConfigYAML []byte
