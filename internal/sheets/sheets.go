package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"braidzworld/internal/events"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Service appends booking status changes to a Google spreadsheet so the
// salon owner can keep an audit log outside the dashboard.
type Service struct {
	service       *sheets.Service
	spreadsheetID string
}

func New(credentialsFile, spreadsheetID string) (*Service, error) {
	ctx := context.Background()

	// Читаем файл учетных данных сервисного аккаунта
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	client := config.Client(ctx)

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	return &Service{
		service:       srv,
		spreadsheetID: spreadsheetID,
	}, nil
}

// TestConnection проверяет подключение к таблице
func (s *Service) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, "Bookings!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// GetServiceAccountEmail возвращает email сервисного аккаунта
func (s *Service) GetServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}

	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}

	return creds.ClientEmail, nil
}

// Subscribe wires the service to booking status events on the bus.
func (s *Service) Subscribe(bus *events.EventBus) {
	handler := func(e *events.Event) error {
		var p events.BookingEventPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return err
		}
		row := []interface{}{
			p.BookingID,
			p.Date,
			p.Time,
			p.UserName,
			p.UserEmail,
			p.Service,
			p.Status,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return s.appendRow(ctx, row)
	}
	bus.Subscribe(events.EventBookingConfirmed, handler)
	bus.Subscribe(events.EventBookingCancelled, handler)
}

func (s *Service) appendRow(ctx context.Context, row []interface{}) error {

	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{row},
	}

	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, "Bookings!A:A", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()

	return err
}
