// Package domain holds the catalog and order entities.
//
// Importing it sets decimal.MarshalJSONWithoutQuotes for the whole process:
// every decimal.Decimal, not only prices declared here, is then encoded as a
// bare JSON number.
package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Product запчасть на складе мастерской
type Product struct {
	ID             int64           `json:"id"`
	Brand          string          `json:"brand" validate:"required"`
	Model          string          `json:"model" validate:"required"`
	Part           string          `json:"part" validate:"required"`
	Color          string          `json:"color"`
	Stock          int64           `json:"stock" validate:"gte=0"`
	RetailPrice    decimal.Decimal `json:"retailPrice"`
	WholesalePrice decimal.Decimal `json:"wholesalePrice"`
	PartPrice      decimal.Decimal `json:"partPrice"`
}

func (p Product) SearchFields() []string {
	return []string{
		strconv.FormatInt(p.ID, 10),
		p.Brand,
		p.Model,
		p.Part,
		p.Color,
		strconv.FormatInt(p.Stock, 10),
		p.RetailPrice.String(),
		p.WholesalePrice.String(),
		p.PartPrice.String(),
	}
}

// UnlockDevice профиль устройства для услуги разблокировки
type UnlockDevice struct {
	ID              int64    `json:"id"`
	Brand           string   `json:"brand" validate:"required"`
	Model           string   `json:"model" validate:"required"`
	Version         string   `json:"version"`
	Security        string   `json:"security"`
	Baseband        string   `json:"baseband"`
	GoogleLock      bool     `json:"googleLock"`
	CanUnlock       bool     `json:"canUnlock"`
	VersionOptions  []string `json:"versionOptions"`
	SecurityOptions []string `json:"securityOptions"`
	BasebandOptions []string `json:"basebandOptions"`
}

func (d UnlockDevice) SearchFields() []string {
	return []string{
		strconv.FormatInt(d.ID, 10),
		d.Brand,
		d.Model,
		d.Version,
		d.Security,
		d.Baseband,
		strconv.FormatBool(d.GoogleLock),
		strconv.FormatBool(d.CanUnlock),
		strings.Join(d.VersionOptions, ","),
		strings.Join(d.SecurityOptions, ","),
		strings.Join(d.BasebandOptions, ","),
	}
}

// Clone returns a copy that shares no option slices with d.
func (d UnlockDevice) Clone() UnlockDevice {
	cp := d
	cp.VersionOptions = append([]string(nil), d.VersionOptions...)
	cp.SecurityOptions = append([]string(nil), d.SecurityOptions...)
	cp.BasebandOptions = append([]string(nil), d.BasebandOptions...)
	return cp
}

// Quote предложение поставщика
type Quote struct {
	ID             int64           `json:"id"`
	Product        string          `json:"product" validate:"required"`
	Price          decimal.Decimal `json:"price"`
	RetailPrice    decimal.Decimal `json:"retailPrice"`
	WholesalePrice decimal.Decimal `json:"wholesalePrice"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	Shipping       decimal.Decimal `json:"shipping"`
	Link           string          `json:"link" validate:"omitempty,url"`
}

func (q Quote) SearchFields() []string {
	return []string{
		strconv.FormatInt(q.ID, 10),
		q.Product,
		q.Price.String(),
		q.RetailPrice.String(),
		q.WholesalePrice.String(),
		q.UnitPrice.String(),
		q.Shipping.String(),
		q.Link,
	}
}

// OrderStatus тип статуса заказа
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusInProgress OrderStatus = "in-progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCanceled   OrderStatus = "canceled"
)

// OrderStatuses lists every status in board order.
var OrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusInProgress,
	OrderStatusCompleted,
	OrderStatusCanceled,
}

// ItemKind определяет, какая сущность скопирована в заказ
type ItemKind string

const (
	ItemKindProduct      ItemKind = "product"
	ItemKindUnlockDevice ItemKind = "unlock-device"
	ItemKindQuote        ItemKind = "quote"
)

func (k ItemKind) Valid() bool {
	switch k {
	case ItemKindProduct, ItemKindUnlockDevice, ItemKindQuote:
		return true
	}
	return false
}

// ItemDetails снимок позиции на момент создания заказа. Заполнено ровно
// одно поле, соответствующее Kind.
type ItemDetails struct {
	Kind         ItemKind      `json:"kind"`
	Product      *Product      `json:"product,omitempty"`
	UnlockDevice *UnlockDevice `json:"unlockDevice,omitempty"`
	Quote        *Quote        `json:"quote,omitempty"`
}

func ProductItem(p Product) ItemDetails {
	return ItemDetails{Kind: ItemKindProduct, Product: &p}
}

func UnlockDeviceItem(d UnlockDevice) ItemDetails {
	cp := d.Clone()
	return ItemDetails{Kind: ItemKindUnlockDevice, UnlockDevice: &cp}
}

func QuoteItem(q Quote) ItemDetails {
	return ItemDetails{Kind: ItemKindQuote, Quote: &q}
}

// Label is a short human description of the item, e.g. "Samsung A12".
func (i ItemDetails) Label() string {
	switch i.Kind {
	case ItemKindProduct:
		if i.Product != nil {
			return i.Product.Brand + " " + i.Product.Model
		}
	case ItemKindUnlockDevice:
		if i.UnlockDevice != nil {
			return i.UnlockDevice.Brand + " " + i.UnlockDevice.Model
		}
	case ItemKindQuote:
		if i.Quote != nil {
			return i.Quote.Product
		}
	}
	return ""
}

// Clone deep-copies the snapshot so stored orders never alias caller memory.
func (i ItemDetails) Clone() ItemDetails {
	out := ItemDetails{Kind: i.Kind}
	if i.Product != nil {
		p := *i.Product
		out.Product = &p
	}
	if i.UnlockDevice != nil {
		d := i.UnlockDevice.Clone()
		out.UnlockDevice = &d
	}
	if i.Quote != nil {
		q := *i.Quote
		out.Quote = &q
	}
	return out
}

// TimestampLayout is the ISO-8601 form orders are stamped and filtered with.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Order сущность заказа
type Order struct {
	ID                 string      `json:"id"`
	OrderNumber        string      `json:"orderNumber"`
	OrderType          string      `json:"orderType"`
	UserName           string      `json:"userName"`
	Timestamp          time.Time   `json:"timestamp"`
	CustomerName       string      `json:"customerName"`
	CustomerPhone      string      `json:"customerPhone"`
	ItemDetails        ItemDetails `json:"itemDetails"`
	Status             OrderStatus `json:"status"`
	Comments           []string    `json:"comments"`
	CancellationReason string      `json:"cancellationReason,omitempty"`
}

// TimestampISO renders the creation time as UTC ISO-8601 with milliseconds.
func (o Order) TimestampISO() string {
	return o.Timestamp.UTC().Format(TimestampLayout)
}

// MarshalJSON writes timestamp in TimestampLayout, so the value a client reads
// is the same string the date filter matches against.
func (o Order) MarshalJSON() ([]byte, error) {
	type plain Order
	return json.Marshal(struct {
		plain
		Timestamp string `json:"timestamp"`
	}{plain: plain(o), Timestamp: o.TimestampISO()})
}

func (o *Order) UnmarshalJSON(data []byte) error {
	type plain Order
	aux := struct {
		*plain
		Timestamp string `json:"timestamp"`
	}{plain: (*plain)(o)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Timestamp == "" {
		o.Timestamp = time.Time{}
		return nil
	}
	ts, err := time.Parse(time.RFC3339Nano, aux.Timestamp)
	if err != nil {
		return fmt.Errorf("order timestamp: %w", err)
	}
	o.Timestamp = ts.UTC()
	return nil
}

// Clone returns a copy sharing no slices or pointers with o.
func (o Order) Clone() Order {
	cp := o
	cp.Comments = append(make([]string, 0, len(o.Comments)), o.Comments...)
	cp.ItemDetails = o.ItemDetails.Clone()
	return cp
}
