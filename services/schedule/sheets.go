package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"washbot/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	// gridRange covers the Date column plus the eight time columns.
	gridRange = "A1:I"

	availabilityCacheTTL = 30 * time.Second
	slotsCachePrefix     = "slots:"
)

// SheetsSlotRepo is the Google Sheets implementation of SlotRepository.
// Availability reads go through a short-TTL Redis cache that is invalidated on
// every successful booking.
type SheetsSlotRepo struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
	cache         *redis.Client
	logger        *zap.Logger
}

// NewSheetsSlotRepo builds a repo over the configured spreadsheet. cache may
// be nil to disable availability caching.
func NewSheetsSlotRepo(ctx context.Context, credentialsFile, spreadsheetID, worksheet string, cache *redis.Client, logger *zap.Logger) (*SheetsSlotRepo, error) {
	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsSlotRepo{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
		cache:         cache,
		logger:        logger,
	}, nil
}

// readGrid fetches the worksheet's used range, header row included.
func (r *SheetsSlotRepo) readGrid(ctx context.Context) ([][]any, error) {
	readRange := fmt.Sprintf("%s!%s", r.worksheet, gridRange)
	resp, err := r.svc.Spreadsheets.Values.Get(r.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read schedule grid: %w", err)
	}
	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("schedule worksheet %q is empty", r.worksheet)
	}
	return resp.Values, nil
}

// AvailableSlots returns the available slots for a date in fixed column order.
func (r *SheetsSlotRepo) AvailableSlots(ctx context.Context, date string) ([]models.Slot, error) {
	if cached, ok := r.cachedSlots(ctx, date); ok {
		return cached, nil
	}

	values, err := r.readGrid(ctx)
	if err != nil {
		return nil, err
	}

	rowIdx := rowForDate(values, date)
	if rowIdx < 0 {
		return nil, ErrNoSchedule
	}

	header := values[0]
	row := values[rowIdx]
	var available []models.Slot
	for _, timeLabel := range models.TimeColumns {
		col := columnForTime(header, timeLabel)
		if col < 0 {
			continue
		}
		if classifyCell(cellAt(row, col)) == cellAvailable {
			available = append(available, models.Slot{
				Date:   date,
				Time:   timeLabel,
				Status: models.SlotStatusAvailable,
			})
		}
	}

	r.storeCachedSlots(ctx, date, available)
	return available, nil
}

// Book writes userID into the (date, time) cell.
//
// The read-then-write sequence below is not atomic against concurrent writers:
// the Sheets values API has no compare-and-set, so two bookings interleaving
// between the read and the update can lose one update. The conflict check
// catches every race the store lets us observe; the remaining window is an
// accepted limitation of the backing store.
func (r *SheetsSlotRepo) Book(ctx context.Context, date, timeLabel, userID string) (*models.BookingResult, error) {
	values, err := r.readGrid(ctx)
	if err != nil {
		return nil, err
	}

	rowIdx := rowForDate(values, date)
	if rowIdx < 0 {
		return nil, ErrNoSchedule
	}
	col := columnForTime(values[0], timeLabel)
	if col < 0 {
		return nil, ErrUnknownTime
	}

	// Re-read the single cell right before writing.
	cellRange := fmt.Sprintf("%s!%s%d", r.worksheet, columnLetter(col), rowIdx+1)
	cellResp, err := r.svc.Spreadsheets.Values.Get(r.spreadsheetID, cellRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read slot cell: %w", err)
	}
	current := ""
	if len(cellResp.Values) > 0 && len(cellResp.Values[0]) > 0 {
		current = cellString(cellResp.Values[0][0])
	}
	switch classifyCell(current) {
	case cellBooked:
		return nil, &SlotTakenError{Occupant: current}
	case cellBlackout:
		// The blackout marker is never overwritten by a booking.
		return nil, ErrBlackedOut
	}

	update := &sheets.ValueRange{Values: [][]any{{userID}}}
	if _, err := r.svc.Spreadsheets.Values.Update(r.spreadsheetID, cellRange, update).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("write slot cell: %w", err)
	}

	r.invalidateCachedSlots(ctx, date)
	return &models.BookingResult{
		Status:      "Success",
		Message:     fmt.Sprintf("Slot booked successfully on %s at %s for %s.", date, timeLabel, userID),
		CellUpdated: fmt.Sprintf("Row %d, Column %d", rowIdx+1, col+1),
	}, nil
}

func (r *SheetsSlotRepo) cachedSlots(ctx context.Context, date string) ([]models.Slot, bool) {
	if r.cache == nil {
		return nil, false
	}
	data, err := r.cache.Get(ctx, slotsCachePrefix+date).Result()
	if err != nil {
		return nil, false
	}
	var slots []models.Slot
	if err := json.Unmarshal([]byte(data), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (r *SheetsSlotRepo) storeCachedSlots(ctx context.Context, date string, slots []models.Slot) {
	if r.cache == nil {
		return
	}
	b, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, slotsCachePrefix+date, b, availabilityCacheTTL).Err(); err != nil {
		r.logger.Debug("availability cache write failed", zap.Error(err))
	}
}

func (r *SheetsSlotRepo) invalidateCachedSlots(ctx context.Context, date string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, slotsCachePrefix+date).Err(); err != nil {
		r.logger.Debug("availability cache invalidation failed", zap.Error(err))
	}
}
