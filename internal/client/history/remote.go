package history

import (
	"context"
	"fmt"

	"github.com/iudanet/smartnlp/internal/client/api"
	"github.com/iudanet/smartnlp/internal/models"
	pkgapi "github.com/iudanet/smartnlp/pkg/api"
)

// remotePageSize сколько записей запрашивается при загрузке истории
const remotePageSize = 100

// Session идентифицирует текущего пользователя для удаленного хранилища
type Session struct {
	UserID string
	Token  string
}

// Remote удаленная копия истории пользователя
type Remote interface {
	Add(ctx context.Context, s Session, item models.HistoryItem) error
	Clear(ctx context.Context, s Session) error
	List(ctx context.Context, s Session) ([]models.HistoryItem, error)
}

// HistoryAPI подмножество HTTP клиента для работы с историей
type HistoryAPI interface {
	History(ctx context.Context, token string, q api.HistoryQuery) (*pkgapi.HistoryResponse, error)
	ClearHistory(ctx context.Context, token string) error
}

// APIRemote хранит историю на сервере SmartNLP
type APIRemote struct {
	client HistoryAPI
}

// NewAPIRemote создает Remote поверх HTTP клиента
func NewAPIRemote(client HistoryAPI) *APIRemote {
	return &APIRemote{client: client}
}

// Add ничего не отправляет: сервер сохраняет операцию в момент ее выполнения
// авторизованным пользователем.
func (r *APIRemote) Add(ctx context.Context, s Session, item models.HistoryItem) error {
	return nil
}

// Clear удаляет историю пользователя на сервере
func (r *APIRemote) Clear(ctx context.Context, s Session) error {
	return r.client.ClearHistory(ctx, s.Token)
}

// List возвращает последние записи истории, от новых к старым
func (r *APIRemote) List(ctx context.Context, s Session) ([]models.HistoryItem, error) {
	resp, err := r.client.History(ctx, s.Token, api.HistoryQuery{Limit: remotePageSize})
	if err != nil {
		return nil, fmt.Errorf("failed to list remote history: %w", err)
	}

	items := make([]models.HistoryItem, 0, len(resp.Operations))
	for _, op := range resp.Operations {
		if op == nil {
			continue
		}
		items = append(items, models.HistoryItemFromOperation(op))
	}
	return items, nil
}
