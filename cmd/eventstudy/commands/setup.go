package commands

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/wonny/eventstudy/internal/studyconfig"
	"github.com/wonny/eventstudy/pkg/config"
	"github.com/wonny/eventstudy/pkg/logger"
)

// loadRuntime loads env config and applies the global flags
func loadRuntime() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if studyFile != "" {
		cfg.StudyConfigPath = studyFile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newLogger logs to w (stderr) so reports on stdout stay clean
func newLogger(cfg *config.Config, w io.Writer) *logger.Logger {
	return logger.NewWithWriter(cfg, w)
}

// loadStudy reads the study file named by cfg
func loadStudy(cfg *config.Config) (*studyconfig.Config, string, error) {
	studyCfg, _, err := studyconfig.Load(cfg.StudyConfigPath)
	if err != nil {
		return nil, "", fmt.Errorf("load study %s: %w", cfg.StudyConfigPath, err)
	}
	hash, err := studyconfig.Hash(studyCfg)
	if err != nil {
		return nil, "", fmt.Errorf("hash study: %w", err)
	}
	return studyCfg, hash, nil
}

// maskPassword hides the password part of a database URL
func maskPassword(dbURL string) string {
	if dbURL == "" {
		return "(not set)"
	}
	u, err := url.Parse(dbURL)
	if err != nil || u.User == nil {
		return dbURL
	}
	if _, ok := u.User.Password(); !ok {
		return dbURL
	}
	// Redacted는 비밀번호를 xxxxx로 치환 (UserPassword는 *를 %2A로 이스케이프)
	return strings.Replace(u.Redacted(), ":xxxxx@", ":****@", 1)
}
