// Package cart holds the shopping cart arithmetic shared by quoting and
// checkout. A cart is a product id to quantity map.
package cart

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

const MaxQuantity = 99

type Line struct {
	ProductID uint
	Quantity  int
}

type Cart map[uint]int

func New() Cart {
	return Cart{}
}

// FromWire converts the JSON form {"<id>": qty} into a Cart. Non-positive
// quantities are dropped.
func FromWire(items map[string]int) (Cart, error) {
	c := New()

	for key, qty := range items {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid product id %q", key)
		}

		if err := c.Set(uint(id), qty); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Add increases the quantity of id by n.
func (c Cart) Add(id uint, n int) error {
	if n <= 0 {
		return ErrInvalidQuantity
	}

	total := c[id] + n
	if total > MaxQuantity {
		return fmt.Errorf("quantity for product %d exceeds %d", id, MaxQuantity)
	}

	c[id] = total

	return nil
}

// Set replaces the quantity of id. n <= 0 removes it.
func (c Cart) Set(id uint, n int) error {
	if n <= 0 {
		delete(c, id)
		return nil
	}

	if n > MaxQuantity {
		return fmt.Errorf("quantity for product %d exceeds %d", id, MaxQuantity)
	}

	c[id] = n

	return nil
}

func (c Cart) Remove(id uint) {
	delete(c, id)
}

// Count is the total number of units.
func (c Cart) Count() int {
	count := 0
	for _, qty := range c {
		count += qty
	}

	return count
}

func (c Cart) IDs() []uint {
	ids := make([]uint, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// Lines returns the cart sorted by product id.
func (c Cart) Lines() []Line {
	lines := make([]Line, 0, len(c))
	for _, id := range c.IDs() {
		lines = append(lines, Line{ProductID: id, Quantity: c[id]})
	}

	return lines
}
