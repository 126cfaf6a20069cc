// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"slices"

	"github.com/scrapediff/scrapediff/internal/store"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

func FormatValidator(value any) error {
	return oneOf(value, store.Formats)
}

func StoreValidator(value any) error {
	return oneOf(value, store.Kinds)
}

func ToleranceValidator(value any) error {
	t, ok := value.(float64)
	if !ok || t <= 0 || t >= 1 {
		return fmt.Errorf("must be in (0, 1)")
	}
	return nil
}

func oneOf(value any, valid []string) error {
	s, ok := value.(string)
	if !ok || !slices.Contains(valid, s) {
		return fmt.Errorf("must be one of %v", valid)
	}
	return nil
}
