package models

import (
	"encoding/json"
	"time"
)

// Actions tracées dans le journal d'audit
const (
	ActionSetImage    = "set_image"
	ActionDeleteImage = "delete_image"
	ActionSetPromo    = "set_promo"
	ActionSetBrand    = "set_brand"
	ActionClearCart   = "clear_cart"
	ActionDeleteOrder = "delete_order"
)

// AuditEntry est une ligne du journal d'audit. Details est aplati au même
// niveau que ts/action/store/user lors de la sérialisation.
type AuditEntry struct {
	TS      time.Time
	Action  string
	Store   string
	User    string
	Details map[string]interface{}
}

func (e AuditEntry) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(e.Details)+4)
	for k, v := range e.Details {
		out[k] = v
	}
	out["ts"] = e.TS.UTC().Format(time.RFC3339Nano)
	out["action"] = e.Action
	out["store"] = e.Store
	out["user"] = e.User
	return json.Marshal(out)
}

func (e *AuditEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = AuditEntry{Details: map[string]interface{}{}}
	for k, v := range raw {
		s, _ := v.(string)
		switch k {
		case "ts":
			e.TS, _ = time.Parse(time.RFC3339Nano, s)
		case "action":
			e.Action = s
		case "store":
			e.Store = s
		case "user":
			e.User = s
		default:
			e.Details[k] = v
		}
	}
	return nil
}
