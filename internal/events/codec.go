package events

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/varun0122/Restaurant-Management/internal/domain/order"
)

// EncodeOrder serializes an order update for the wire. Prices travel as
// strings so no precision is lost in transit.
func EncodeOrder(o *order.Order) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("customer_id")
	e.Str(o.CustomerID)
	e.FieldStart("table_number")
	e.Int(o.TableNumber)
	e.FieldStart("status")
	e.Str(string(o.Status))
	e.FieldStart("bill_id")
	e.Str(o.BillID)
	e.FieldStart("created_at")
	e.Str(o.CreatedAt.UTC().Format(time.RFC3339Nano))
	e.FieldStart("items")
	e.ArrStart()
	for _, it := range o.Items {
		e.ObjStart()
		e.FieldStart("dish_id")
		e.Int64(it.DishID)
		e.FieldStart("name")
		e.Str(it.Name)
		e.FieldStart("unit_price")
		e.Str(it.UnitPrice.String())
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
	return e.Bytes()
}

// DecodeOrder parses an order update produced by EncodeOrder.
func DecodeOrder(data []byte) (*order.Order, error) {
	var o order.Order
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Str()
			o.ID = v
			return err
		case "customer_id":
			v, err := d.Str()
			o.CustomerID = v
			return err
		case "table_number":
			v, err := d.Int()
			o.TableNumber = v
			return err
		case "status":
			v, err := d.Str()
			o.Status = order.Status(v)
			return err
		case "bill_id":
			v, err := d.Str()
			o.BillID = v
			return err
		case "created_at":
			v, err := d.Str()
			if err != nil {
				return err
			}
			t, err := time.Parse(time.RFC3339Nano, v)
			o.CreatedAt = t
			return err
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				var it order.LineItem
				if err := d.Obj(func(d *jx.Decoder, key string) error {
					switch key {
					case "dish_id":
						v, err := d.Int64()
						it.DishID = v
						return err
					case "name":
						v, err := d.Str()
						it.Name = v
						return err
					case "unit_price":
						v, err := d.Str()
						if err != nil {
							return err
						}
						p, err := decimal.NewFromString(v)
						it.UnitPrice = p
						return err
					case "quantity":
						v, err := d.Int()
						it.Quantity = v
						return err
					default:
						return d.Skip()
					}
				}); err != nil {
					return err
				}
				o.Items = append(o.Items, it)
				return nil
			})
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, errors.Wrap(err, "decode order update")
	}
	return &o, nil
}
