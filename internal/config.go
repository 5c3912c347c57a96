package internal

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const EnvFile string = "ENV_FILE"

// Envs converts os.Environ() style key=value pairs into a map
func Envs(environ []string) map[string]string {
	envs := make(map[string]string)
	for _, env := range environ {
		if s := strings.Split(env, "="); len(s) > 1 {
			envs[s[0]] = strings.Join(s[1:], "=")
		}
	}
	return envs
}

// LoadEnvs returns the process environment; if ENV_FILE is set, the
// file is read first and the process environment takes precedence
func LoadEnvs() (map[string]string, error) {
	envs := Envs(os.Environ())
	envFile := envs[EnvFile]
	if envFile == "" {
		return envs, nil
	}
	fileEnvs, err := godotenv.Read(envFile)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read env file %s", envFile)
	}
	for key, value := range envs {
		fileEnvs[key] = value
	}
	return fileEnvs, nil
}
