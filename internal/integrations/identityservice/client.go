package identityservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// Client клиент для работы с IdentityService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента IdentityService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetAccess получает права пользователя: признак администратора и объекты, где он сотрудник
func (c *Client) GetAccess(ctx context.Context, userID int64) (domain.Requester, error) {
	url := fmt.Sprintf("%s/internal/users/%d/access", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Requester{}, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("GetAccess: request failed for user_id=%d: %v", userID, err)
		return domain.Requester{}, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return domain.Requester{}, fmt.Errorf("%w: invalid user ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		c.log.Warn("GetAccess: user_id=%d not found", userID)
		return domain.Requester{}, ErrUserNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return domain.Requester{}, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var access Access
	if err := json.NewDecoder(resp.Body).Decode(&access); err != nil {
		return domain.Requester{}, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	c.log.Info("GetAccess: user_id=%d admin=%t facilities=%v", userID, access.IsAdmin, access.FacilityIDs)
	return domain.Requester{
		ID:          userID,
		IsAdmin:     access.IsAdmin,
		FacilityIDs: access.FacilityIDs,
	}, nil
}
