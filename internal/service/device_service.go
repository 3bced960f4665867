package service

import (
	"context"
	"slices"
	"strings"

	"repairdesk/internal/domain"
	"repairdesk/internal/repository"
)

// DefaultBrands бренды, с которыми работает мастерская
var DefaultBrands = []string{
	"Xiaomi", "Samsung", "Huawei", "Oppo", "LG", "Nokia",
	"iPhone", "Motorola", "Vortex", "Mediatek", "Blu",
}

// DeviceService ведёт справочник устройств для разблокировки
type DeviceService struct {
	repo   repository.DeviceRepository
	brands []string
}

// NewDeviceService falls back to DefaultBrands when brands is empty.
func NewDeviceService(repo repository.DeviceRepository, brands []string) *DeviceService {
	if len(brands) == 0 {
		brands = DefaultBrands
	}
	return &DeviceService{repo: repo, brands: slices.Clone(brands)}
}

func (s *DeviceService) Brands() []string {
	return slices.Clone(s.brands)
}

func cleanOptions(opts []string) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// normalizeDevice drops blank options, selects the first option where nothing
// is selected, and checks each selection against its option list.
func normalizeDevice(d *domain.UnlockDevice) error {
	d.Brand = strings.TrimSpace(d.Brand)
	d.Model = strings.TrimSpace(d.Model)
	if err := validateStruct(d); err != nil {
		return err
	}
	d.VersionOptions = cleanOptions(d.VersionOptions)
	d.SecurityOptions = cleanOptions(d.SecurityOptions)
	d.BasebandOptions = cleanOptions(d.BasebandOptions)

	selections := []struct {
		field    string
		selected *string
		options  []string
	}{
		{"version", &d.Version, d.VersionOptions},
		{"security", &d.Security, d.SecurityOptions},
		{"baseband", &d.Baseband, d.BasebandOptions},
	}
	for _, sel := range selections {
		if len(sel.options) == 0 {
			return invalidField(sel.field+"Options", "needs at least one option")
		}
		*sel.selected = strings.TrimSpace(*sel.selected)
		if *sel.selected == "" {
			*sel.selected = sel.options[0]
		}
		if !slices.Contains(sel.options, *sel.selected) {
			return invalidField(sel.field, "must be one of %s", strings.Join(sel.options, ", "))
		}
	}
	return nil
}

func (s *DeviceService) Create(ctx context.Context, d domain.UnlockDevice) (*domain.UnlockDevice, error) {
	cp := d.Clone()
	cp.ID = 0
	if err := normalizeDevice(&cp); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *DeviceService) GetByID(ctx context.Context, id int64) (*domain.UnlockDevice, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *DeviceService) Update(ctx context.Context, d domain.UnlockDevice) (*domain.UnlockDevice, error) {
	if d.ID <= 0 {
		return nil, ErrInvalidInput
	}
	cp := d.Clone()
	if err := normalizeDevice(&cp); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *DeviceService) List(ctx context.Context, f repository.DeviceFilter) ([]domain.UnlockDevice, error) {
	return s.repo.List(ctx, f)
}
