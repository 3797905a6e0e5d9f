package uci

import (
	"fmt"
	"strconv"
)

// Option is one entry of the engine's setoption surface. Values are bound to
// the engine by pointer, so Set takes effect on the next Prepare.
type Option interface {
	UciName() string
	UciString() string
	Set(value string) error
}

type IntOption struct {
	Name  string
	Min   int
	Max   int
	Value *int
}

func (o *IntOption) UciName() string {
	return o.Name
}

func (o *IntOption) UciString() string {
	return fmt.Sprintf("option name %v type spin default %v min %v max %v",
		o.Name, *o.Value, o.Min, o.Max)
}

func (o *IntOption) Set(value string) error {
	var v, err = strconv.Atoi(value)
	if err != nil {
		return err
	}
	if v < o.Min || v > o.Max {
		return fmt.Errorf("option %v: value %v out of range [%v, %v]",
			o.Name, v, o.Min, o.Max)
	}
	*o.Value = v
	return nil
}

type BoolOption struct {
	Name  string
	Value *bool
}

func (o *BoolOption) UciName() string {
	return o.Name
}

func (o *BoolOption) UciString() string {
	return fmt.Sprintf("option name %v type check default %v", o.Name, *o.Value)
}

func (o *BoolOption) Set(value string) error {
	var v, err = strconv.ParseBool(value)
	if err != nil {
		return err
	}
	*o.Value = v
	return nil
}

// ButtonOption fires an action and carries no value.
type ButtonOption struct {
	Name   string
	Action func()
}

func (o *ButtonOption) UciName() string {
	return o.Name
}

func (o *ButtonOption) UciString() string {
	return fmt.Sprintf("option name %v type button", o.Name)
}

func (o *ButtonOption) Set(value string) error {
	o.Action()
	return nil
}
