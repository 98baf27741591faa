package envconfig

import (
	"context"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

// retryInterval は .env 読み込みをリトライする最大の時間です。
const retryInterval = time.Second

const (
	defaultLogLevel    = "warn"
	defaultExecTimeout = 10 * time.Second
)

// Env holds the defaults read from the environment. Command-line flags win
// over these.
type Env struct {
	// CMDJSON_PRETTY
	PRETTY bool
	// CMDJSON_LOG_LEVEL
	LOG_LEVEL string
	// CMDJSON_EXEC_TIMEOUT
	EXEC_TIMEOUT time.Duration
}

// NewEnv loads the given dotenv files (".env" when none are given) and reads
// the CMDJSON_* variables. Files that do not exist are skipped; variables
// already set in the environment are not overridden.
func NewEnv(files ...string) (*Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		f := f
		operation := func() error {
			err := godotenv.Load(f)
			// .envファイルがない場合は無視する
			if err == nil || errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			// 読み込みエラーだけリトライし、書式エラーはそのまま返す
			var pathErr *fs.PathError
			if !errors.As(err, &pathErr) {
				return backoff.Permanent(errors.Wrapf(err, "parse %s", f))
			}
			return errors.Wrapf(err, "load %s", f)
		}
		if err := retryOperation(context.Background(), operation); err != nil {
			return nil, err
		}
	}

	env := &Env{
		LOG_LEVEL:    defaultLogLevel,
		EXEC_TIMEOUT: defaultExecTimeout,
	}

	if v := os.Getenv("CMDJSON_PRETTY"); v != "" {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.Wrapf(err, "CMDJSON_PRETTY=%q", v)
		}
		env.PRETTY = pretty
	}
	if v := os.Getenv("CMDJSON_LOG_LEVEL"); v != "" {
		env.LOG_LEVEL = v
	}
	if v := os.Getenv("CMDJSON_EXEC_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, errors.Wrapf(err, "CMDJSON_EXEC_TIMEOUT=%q", v)
		}
		env.EXEC_TIMEOUT = d
	}

	return env, nil
}

func retryOperation(ctx context.Context, operation func() error) error {
	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.MaxElapsedTime = retryInterval

	err := backoff.Retry(operation, backoff.WithContext(retryBackoff, ctx))
	return errors.WithStack(err)
}
