package events

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("buffer", Ordered, func() {
	Context("buffer", func() {
		It("add successfully", func() {
			buffer := newBuffer()

			err := buffer.PushBack(&message{Kind: SubmissionMessageKind, Data: []byte("msg1")})
			Expect(err).To(BeNil())
			Expect(buffer.Size()).To(Equal(1))

			err = buffer.PushBack(&message{Kind: SubmissionMessageKind, Data: []byte("msg2")})
			Expect(err).To(BeNil())
			Expect(buffer.Size()).To(Equal(2))

			err = buffer.PushBack(&message{Kind: SubmissionMessageKind, Data: []byte("msg3")})
			Expect(err).To(BeNil())
			Expect(buffer.Size()).To(Equal(3))
		})

		It("pops in insertion order", func() {
			buffer := newBuffer()

			for _, data := range []string{"msg1", "msg2", "msg3"} {
				err := buffer.PushBack(&message{Kind: SubmissionMessageKind, Data: []byte(data)})
				Expect(err).To(BeNil())
			}
			Expect(buffer.Size()).To(Equal(3))

			for i, want := range []string{"msg1", "msg2", "msg3"} {
				m := buffer.Pop()
				Expect(m).NotTo(BeNil())
				Expect(m.Data).To(Equal([]byte(want)))
				Expect(buffer.Size()).To(Equal(2 - i))
			}

			Expect(buffer.Pop()).To(BeNil())
		})
	})
})
