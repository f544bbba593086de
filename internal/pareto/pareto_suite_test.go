package pareto_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPareto(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Pareto Ranking Suite")
}
