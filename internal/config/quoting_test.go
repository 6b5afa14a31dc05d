package config

import (
	"os"
	"testing"

	"github.com/joho/godotenv"
)

func TestGodotenvQuoting(t *testing.T) {
	content := "WEBHOOK_URL='https://hooks.example.com/services/T0/B0/x?a=1&b=\"q\"'\nTARGET_SITE=\"LGB8\"\n"
	tmpfile, err := os.CreateTemp("", ".env.test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	env, err := godotenv.Read(tmpfile.Name())
	if err != nil {
		t.Fatalf("Error reading env: %v", err)
	}

	expected := `https://hooks.example.com/services/T0/B0/x?a=1&b="q"`
	if env["WEBHOOK_URL"] != expected {
		t.Errorf("Expected %s, got %s", expected, env["WEBHOOK_URL"])
	}
	if env["TARGET_SITE"] != "LGB8" {
		t.Errorf("Expected LGB8, got %s", env["TARGET_SITE"])
	}
}
