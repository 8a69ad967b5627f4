package constraint_test

import (
	"assethub/domain/constraint"
	"encoding/json"
	"testing"

	. "github.com/onsi/gomega"
)

func TestCriterionValue(t *testing.T) {
	RegisterTestingT(t)

	t.Run("wire shape is a plain string or a string list", func(t *testing.T) {
		criterion := constraint.Criterion{}

		Expect(json.Unmarshal([]byte(`{"field":"databaseId","operator":"equals","value":"proj1"}`), &criterion)).To(BeNil())
		Expect(criterion.Value.IsList()).To(BeFalse())
		Expect(criterion.Value.Strings()).To(Equal([]string{"proj1"}))

		Expect(json.Unmarshal([]byte(`{"field":"tags","operator":"is_one_of","value":["a","b"]}`), &criterion)).To(BeNil())
		Expect(criterion.Value.IsList()).To(BeTrue())
		Expect(criterion.Value.Strings()).To(Equal([]string{"a", "b"}))

		Expect(json.Unmarshal([]byte(`{"field":"x","operator":"equals","value":42}`), &criterion)).ToNot(BeNil())
	})

	t.Run("marshalling preserves the original shape", func(t *testing.T) {
		scalar, err := json.Marshal(constraint.StringValue("proj1"))
		Expect(err).To(BeNil())
		Expect(string(scalar)).To(Equal(`"proj1"`))

		list, err := json.Marshal(constraint.ListValue("a", "b"))
		Expect(err).To(BeNil())
		Expect(string(list)).To(Equal(`["a","b"]`))
	})

	t.Run("Map visits every contained string", func(t *testing.T) {
		mark := func(s string) string { return s + "!" }
		Expect(constraint.StringValue("a").Map(mark)).To(Equal(constraint.StringValue("a!")))
		Expect(constraint.ListValue("a", "b").Map(mark)).To(Equal(constraint.ListValue("a!", "b!")))
	})
}
