package taglist

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("List", func() {
	var l *List[int]

	BeforeEach(func() {
		l = New[int](3)
	})

	It("should start empty", func() {
		Expect(l.Len()).To(Equal(0))
		Expect(l.Cap()).To(Equal(3))
		Expect(l.IsFull()).To(BeFalse())

		_, ok := l.Back()
		Expect(ok).To(BeFalse())
	})

	It("should keep the newest element at the head", func() {
		l.PushFront(1)
		l.PushFront(2)
		l.PushFront(3)

		Expect(l.IsFull()).To(BeTrue())
		Expect(l.Slice()).To(Equal([]int{3, 2, 1}))
		Expect(l.At(0)).To(Equal(3))

		back, ok := l.Back()
		Expect(ok).To(BeTrue())
		Expect(back).To(Equal(1))
	})

	It("should pop the oldest element", func() {
		l.PushFront(1)
		l.PushFront(2)

		Expect(l.PopBack()).To(Equal(1))
		Expect(l.Slice()).To(Equal([]int{2}))
		Expect(l.PopBack()).To(Equal(2))
		Expect(l.Len()).To(Equal(0))
	})

	It("should wrap around many times", func() {
		for i := 0; i < 100; i++ {
			if l.IsFull() {
				l.PopBack()
			}

			l.PushFront(i)
		}

		Expect(l.Slice()).To(Equal([]int{99, 98, 97}))
	})

	It("should find the first match from the head", func() {
		l.PushFront(7)
		l.PushFront(8)
		l.PushFront(7)

		i, ok := l.Find(func(e int) bool { return e == 7 })
		Expect(ok).To(BeTrue())
		Expect(i).To(Equal(0))

		_, ok = l.Find(func(e int) bool { return e == 9 })
		Expect(ok).To(BeFalse())
	})

	It("should work with a single slot", func() {
		one := New[string](1)
		one.PushFront("a")

		back, ok := one.Back()
		Expect(ok).To(BeTrue())
		Expect(back).To(Equal("a"))

		Expect(one.PopBack()).To(Equal("a"))
		one.PushFront("b")
		Expect(one.Slice()).To(Equal([]string{"b"}))
	})

	It("should panic on misuse", func() {
		Expect(func() { l.PopBack() }).To(Panic())
		Expect(func() { l.At(0) }).To(Panic())
		Expect(func() { New[int](-1) }).To(Panic())

		zero := New[int](0)
		Expect(zero.IsFull()).To(BeTrue())
		Expect(func() { zero.PushFront(1) }).To(Panic())
	})
})
