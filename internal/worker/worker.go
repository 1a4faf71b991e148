package worker

import (
	"context"
)

// Worker - фоновый процесс cmd/worker, которым управляет WorkerManager.
// Start блокирует, пока воркер не остановлен через Stop или ctx;
// остановка через Stop возвращает nil, отмена ctx - ctx.Err().
// Stop можно вызывать повторно.
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
	Name() string
}
