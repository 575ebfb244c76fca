package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Device устройство из /api/devices-v2/device.
// Attributes хранит исходный JSON-объект целиком, чтобы отдавать любые поля.
type Device struct {
	AccountName           string
	DeviceType            string
	SerialNumber          string
	DeviceOwnerCustomerID string

	Attributes map[string]any
}

// DeviceFromRaw разбирает один элемент массива "devices".
func DeviceFromRaw(raw map[string]any) Device {
	return Device{
		AccountName:           stringify(raw["accountName"]),
		DeviceType:            stringify(raw["deviceType"]),
		SerialNumber:          stringify(raw["serialNumber"]),
		DeviceOwnerCustomerID: stringify(raw["deviceOwnerCustomerId"]),
		Attributes:            raw,
	}
}

// Attribute returns the named field as the service sent it.
func (d Device) Attribute(name string) (any, bool) {
	v, ok := d.fields()[name]
	return v, ok
}

func (d Device) fields() map[string]any {
	if d.Attributes != nil {
		return d.Attributes
	}
	return map[string]any{
		"accountName":           d.AccountName,
		"deviceType":            d.DeviceType,
		"serialNumber":          d.SerialNumber,
		"deviceOwnerCustomerId": d.DeviceOwnerCustomerID,
	}
}

func (d Device) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.fields())
}

func (d *Device) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*d = DeviceFromRaw(raw)
	return nil
}

// stringify приводит значение к строке так же, как это делает сервис в payload.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
