// Package otp generates the numeric one-time codes shown to customers.
package otp

import (
	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/ports"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const digits = "0123456789"

var _ ports.CodeGenerator = Generator{}

// Generator draws codes from crypto/rand through nanoid.
type Generator struct{}

func NewGenerator() Generator {
	return Generator{}
}

func (Generator) Generate() (job.OneTimeCode, error) {
	value, err := gonanoid.Generate(digits, job.OneTimeCodeLength)
	if err != nil {
		return job.OneTimeCode{}, err
	}
	return job.NewOneTimeCode(value)
}
