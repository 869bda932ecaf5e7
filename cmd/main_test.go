package main

import (
	"bytes"
	"flag"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

// resetEnv clears env vars used by parseConfig
func resetEnv() {
	os.Clearenv()
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	assert.Equal(t, "config.env", parseFlags())
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env"}
	assert.Equal(t, "myconfig.env", parseFlags())
}

func TestPrintBuildInfo_Output(t *testing.T) {
	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2025-09-26"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	output := buf.String()
	assert.True(t, strings.Contains(output, "v1.0.0"))
	assert.True(t, strings.Contains(output, "abcd1234"))
	assert.True(t, strings.Contains(output, "2025-09-26"))
}

func TestParseConfig_Defaults(t *testing.T) {
	resetEnv()

	cfg, err := parseConfig("nonexistent.env")
	assert.NoError(t, err)

	assert.Equal(t, "localhost", cfg.AppHost)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5432, cfg.PGPort)
	assert.Equal(t, 604800, cfg.JWTExpSecond) // 7 days
	assert.Equal(t, 0, cfg.OTPTTLSecond)      // codes never expire by default
	assert.False(t, cfg.MailSuppress)
	assert.Empty(t, cfg.KafkaHost)
	assert.False(t, cfg.production())
}

func TestParseConfig_Overrides(t *testing.T) {
	resetEnv()

	os.Setenv("APP_ENV", "production")
	os.Setenv("JWT_SECRET_KEY", "super-secret")
	os.Setenv("OTP_TTL_SECOND", "1800")
	os.Setenv("MAIL_SUPPRESS_TEST_ONLY", "true")
	os.Setenv("KAFKA_HOST", "kafka")
	defer resetEnv()

	cfg, err := parseConfig("nonexistent.env")
	assert.NoError(t, err)

	assert.True(t, cfg.production())
	assert.Equal(t, "super-secret", cfg.JWTSecretKey)
	assert.Equal(t, 1800, cfg.OTPTTLSecond)
	assert.True(t, cfg.MailSuppress)
	assert.Equal(t, "kafka", cfg.KafkaHost)
}

func TestParseConfig_ProductionRequiresSecret(t *testing.T) {
	resetEnv()

	os.Setenv("APP_ENV", "production")
	defer resetEnv()

	cfg, err := parseConfig("nonexistent.env")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestParseConfig_InvalidInt(t *testing.T) {
	resetEnv()

	os.Setenv("POSTGRES_PORT", "not-a-number")
	defer resetEnv()

	cfg, err := parseConfig("nonexistent.env")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
