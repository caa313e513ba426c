package dto

import (
	"encoding/json"
	"strings"
)

// VoucherDTO - mã giảm giá (/discountcode).
type VoucherDTO struct {
	ID              ID      `json:"id"`
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discountPercent"`
	ExpiryDate      Date    `json:"expiryDate"`
	Quantity        int     `json:"quantity"`
	IsActive        bool    `json:"isActive"`
}

func DecodeVoucher(raw json.RawMessage) (VoucherDTO, error) {
	r := newRecord(raw)
	v := VoucherDTO{
		ID:              r.ID("id", "discountCodeId"),
		Code:            r.String("code", "discountCode"),
		DiscountPercent: r.Float("discountPercent", "discount"),
		ExpiryDate:      r.Date("expiryDate", "validUntil"),
		Quantity:        r.Int("quantity"),
		IsActive:        r.BoolDefault(true, "isActive", "active"),
	}
	return v, r.Err()
}

func (v VoucherDTO) RowID() string { return v.ID.String() }

var VoucherColumns = []Column{
	{Key: "code", Title: "Mã", Width: "22%"},
	{Key: "discountPercent", Title: "Giảm giá", Width: "14%"},
	{Key: "expiryDate", Title: "Hết hạn", Width: "18%"},
	{Key: "quantity", Title: "Số lượng", Width: "14%"},
	{Key: "isActive", Title: "Trạng thái", Width: "14%"},
}

func (v VoucherDTO) Cells() []string {
	return []string{
		v.Code,
		FormatPercent(v.DiscountPercent),
		FormatDate(v.ExpiryDate),
		FormatNumber(v.Quantity),
		FormatActive(v.IsActive),
	}
}

type VoucherFormDTO struct {
	Code            string  `json:"code" form:"code" validate:"notblank,max=40"`
	DiscountPercent float64 `json:"discountPercent" form:"discountPercent" validate:"gte=1,lte=100"`
	ExpiryDate      string  `json:"expiryDate" form:"expiryDate" validate:"required,datetime=2006-01-02"`
	Quantity        int     `json:"quantity" form:"quantity" validate:"gte=0"`
	IsActive        bool    `json:"isActive" form:"isActive"`
}

func (f *VoucherFormDTO) Normalize() {
	f.Code = strings.ToUpper(strings.TrimSpace(f.Code))
}

var VoucherFields = []Field{
	{Name: "code", Label: "Mã giảm giá", Type: "text", Required: true},
	{Name: "discountPercent", Label: "Phần trăm giảm", Type: "number", Required: true},
	{Name: "expiryDate", Label: "Ngày hết hạn", Type: "date", Required: true},
	{Name: "quantity", Label: "Số lượng", Type: "number"},
	{Name: "isActive", Label: "Đang hoạt động", Type: "checkbox"},
}
