package rfc

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"go.uber.org/mock/gomock"
)

var _ = Describe("LogHook", func() {
	var (
		mockCtrl *gomock.Controller
		logs     *test.Hook
		c        *Cache
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())

		logger, hook := test.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)
		logs = hook

		c = MakeBuilder().
			WithNumSlotsPerStream(1).
			WithHook(NewLogHook(logger)).
			Build("RFC")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should log lookups", func() {
		c.LookupRead(2, 5)

		entry := logs.LastEntry()
		Expect(entry).NotTo(BeNil())
		Expect(entry.Level).To(Equal(logrus.DebugLevel))
		Expect(entry.Message).To(Equal("rfc lookup"))
		Expect(entry.Data).To(HaveKeyWithValue("cache", "RFC"))
		Expect(entry.Data).To(HaveKeyWithValue("reg", uint32(5)))
		Expect(entry.Data).To(HaveKeyWithValue("kind", "read"))
		Expect(entry.Data).To(HaveKeyWithValue("hit", false))
	})

	It("should log evictions before insertions", func() {
		inst := NewMockInst(mockCtrl)
		inst.EXPECT().StreamID().Return(StreamID(0)).AnyTimes()

		c.Insert(1, inst)
		logs.Reset()
		c.Insert(2, inst)

		entries := logs.AllEntries()
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Message).To(Equal("rfc evict"))
		Expect(entries[0].Data).To(HaveKeyWithValue("reg", uint32(1)))
		Expect(entries[1].Message).To(Equal("rfc insert"))
		Expect(entries[1].Data).To(HaveKeyWithValue("occupancy", 1))
	})

	It("should stay quiet above debug level", func() {
		logger, hook := test.NewNullLogger()
		logger.SetLevel(logrus.InfoLevel)
		c = MakeBuilder().WithHook(NewLogHook(logger)).Build("RFC")

		c.LookupWrite(0, 0)

		Expect(hook.AllEntries()).To(BeEmpty())
	})
})
