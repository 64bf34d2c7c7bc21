/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package internal

import (
	"encoding/json"
	"io"
	"os"
)

type Config struct {
	DBName         string `json:"db-name"`
	HTTPServerPort uint16 `json:"http-server-port"`
	ReadTimeout    int64  `json:"read-timeout"`
	WriteTimeout   int64  `json:"write-timeout"`
	SecretKey      string `json:"secret-key"`
	EnableLogging  bool   `json:"enable-logging"`

	// Optional redis address; empty means single-instance, no relay
	RedisAddr string `json:"redis-addr"`

	// Write budget per editor
	RateLimit         int   `json:"rate-limit"`
	RateWindowSeconds int64 `json:"rate-window-seconds"`

	// Lock staleness window in minutes; zero means the default
	LockExpiryMinutes int64 `json:"lock-expiry-minutes"`

	// Seeded at startup when both are set
	AdminNickname string `json:"admin-nickname"`
	AdminPassword string `json:"admin-password"`

	// Form fields guaranteed to exist after startup
	FormFieldIDs []string `json:"form-field-ids"`
}

func LoadConfig(folderPath string) (*Config, error) {

	file, err := os.OpenFile(folderPath+"/.cfg", os.O_RDONLY, 0755)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	var config *Config = &Config{}
	if err = json.Unmarshal(payload, config); err != nil {
		return nil, err
	}

	return config, nil
}
