//go:generate mockgen -package=session -destination=mock.go -source=interfaces.go

package session

import "context"

// IStore 是session資料的持久化介面，一個name對應一份key-value資料
type IStore interface {
	Load(ctx context.Context, name string) (map[string]string, error)
	Save(ctx context.Context, name string, data map[string]string) error
}

// ISession 代表單一請求可操作的session
// 第一次存取前必須先呼叫Load，修改後必須呼叫Save才會寫回儲存層
type ISession interface {
	Load() error
	Get(key string) string
	Set(key, value string)
	Delete(key string)
	Clear()
	Save() error
}
