package request

import (
	"encoding/json"
	"testing"

	"cargo_quotes/internal/domain/entities"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func TestCreateQuotationRequest_ToInput(t *testing.T) {
	raw := `{
		"origin": {"city": " Dubai ", "country": "AE"},
		"destination": {"city": "Mumbai", "country": "IN"},
		"cargo_type": "General",
		"service_type": "Express",
		"handover_method": "DROP_OFF",
		"drop_off_warehouse_id": " wh-1 ",
		"items": [{"description": "pallet", "quantity": 2, "unit_price": "12.50"}],
		"tax_rate": 5,
		"currency": "eur",
		"draft": true
	}`
	var r CreateQuotationRequest
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	in := r.ToInput()
	if in.Origin.City != "Dubai" || in.Destination.City != "Mumbai" || in.PickupAddress != nil {
		t.Fatalf("unexpected addresses: %+v", in)
	}
	if in.HandoverMethod != entities.HandoverDropOff || in.DropOffWarehouseID != "wh-1" || !in.Draft {
		t.Fatalf("unexpected handover fields: %+v", in)
	}
	if in.Currency != "EUR" || !in.TaxRate.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("unexpected pricing inputs: %+v", in)
	}
	if len(in.Items) != 1 || !in.Items[0].UnitPrice.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected items: %+v", in.Items)
	}
}

func TestValidators(t *testing.T) {
	if err := RegisterValidators(); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := RegisterValidators(); err != nil {
		t.Fatalf("second register: %v", err)
	}

	t.Run("valid payload", func(t *testing.T) {
		r := CreateQuotationRequest{
			Origin:      AddressRequest{City: "Dubai", Country: "AE"},
			CargoType:   "General",
			ServiceType: "Priority",
			Currency:    "sgd",
		}
		if err := binding.Validator.ValidateStruct(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("unsupported values", func(t *testing.T) {
		r := CreateQuotationRequest{
			Origin:      AddressRequest{City: "Dubai"},
			CargoType:   "General",
			ServiceType: "Teleport",
			Currency:    "BTC",
			Items:       []LineItemRequest{{Description: "x", Quantity: 0}},
		}
		err := binding.Validator.ValidateStruct(r)
		details := FieldErrors(err)
		want := map[string]string{
			"service_type":      "service_type",
			"currency":          "currency",
			"origin.country":    "required",
			"items[0].quantity": "required",
		}
		for k, v := range want {
			if details[k] != v {
				t.Fatalf("expected %s=%s in %v", k, v, details)
			}
		}
	})

	t.Run("update price needs items", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(UpdatePriceRequest{})
		if FieldErrors(err)["items"] != "required" {
			t.Fatalf("expected items required, got %v", err)
		}
	})
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	if FieldErrors(json.Unmarshal([]byte("{"), &struct{}{})) != nil {
		t.Fatalf("expected nil details for syntax errors")
	}
}

func TestRegisterValidations(t *testing.T) {
	t.Run("installs custom tags", func(t *testing.T) {
		v := validator.New()
		if err := registerValidations(v, customValidations); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := v.Var("usd", "currency"); err != nil {
			t.Fatalf("expected usd to pass: %v", err)
		}
		if err := v.Var("BTC", "currency"); err == nil {
			t.Fatalf("expected BTC to fail")
		}
		if err := v.Var("Teleport", "service_type"); err == nil {
			t.Fatalf("expected Teleport to fail")
		}
	})

	t.Run("reports a failed registration", func(t *testing.T) {
		err := registerValidations(validator.New(), map[string]validator.Func{"": validateCurrency})
		if err == nil {
			t.Fatalf("expected registration error")
		}
	})
}
