package sysutils

import (
	"os"
	"path/filepath"

	. "gopkg.in/check.v1"
)

type FileOpsTestSuite struct {
	tmpdir   string
	manifest string
	payload  string
	dstPath  string
}

var _ = Suite(&FileOpsTestSuite{})

func (s *FileOpsTestSuite) SetUpTest(c *C) {
	s.tmpdir = c.MkDir()
	s.manifest = filepath.Join(s.tmpdir, "manifest")
	s.payload = filepath.Join(s.tmpdir, "payload")
	s.dstPath = filepath.Join(s.tmpdir, "dst")
}

func (s *FileOpsTestSuite) TestConcatOrder(c *C) {
	c.Assert(os.WriteFile(s.manifest, []byte{0x30, 0x82, 0x00}, 0644), IsNil)
	c.Assert(os.WriteFile(s.payload, []byte("payload"), 0644), IsNil)

	c.Assert(ConcatFiles(s.dstPath, false, s.manifest, s.payload), IsNil)

	contents, err := os.ReadFile(s.dstPath)
	c.Assert(err, IsNil)
	c.Assert(contents, DeepEquals, append([]byte{0x30, 0x82, 0x00}, []byte("payload")...))
}

func (s *FileOpsTestSuite) TestConcatTruncatesExisting(c *C) {
	c.Assert(os.WriteFile(s.dstPath, []byte("a much longer previous content"), 0644), IsNil)
	c.Assert(os.WriteFile(s.payload, []byte("new"), 0644), IsNil)

	c.Assert(ConcatFiles(s.dstPath, false, s.payload), IsNil)

	contents, err := os.ReadFile(s.dstPath)
	c.Assert(err, IsNil)
	c.Assert(string(contents), Equals, "new")
}

func (s *FileOpsTestSuite) TestConcatLargeWithProgress(c *C) {
	big := make([]byte, 3*progressThreshold)
	for i := range big {
		big[i] = byte(i)
	}
	c.Assert(os.WriteFile(s.payload, big, 0644), IsNil)

	c.Assert(ConcatFiles(s.dstPath, true, s.payload), IsNil)

	contents, err := os.ReadFile(s.dstPath)
	c.Assert(err, IsNil)
	c.Assert(contents, DeepEquals, big)
}

func (s *FileOpsTestSuite) TestConcatMissingSourceLeavesNoOutput(c *C) {
	c.Assert(os.WriteFile(s.manifest, []byte("manifest"), 0644), IsNil)

	err := ConcatFiles(s.dstPath, false, s.manifest, s.payload)
	c.Assert(err, NotNil)
	c.Assert(os.IsNotExist(err), Equals, true)
	c.Assert(FileExists(s.dstPath), Equals, false)
}

func (s *FileOpsTestSuite) TestFileExists(c *C) {
	c.Assert(FileExists(s.payload), Equals, false)
	c.Assert(os.WriteFile(s.payload, nil, 0644), IsNil)
	c.Assert(FileExists(s.payload), Equals, true)
	c.Assert(FileExists(s.tmpdir), Equals, true)
}
