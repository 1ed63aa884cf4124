package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
)

func TestAssembleCommandWritesBigEndianImage(t *testing.T) {
	g := NewWithT(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "prog.asm")
	out := filepath.Join(dir, "prog.bin")
	g.Expect(os.WriteFile(src, []byte("SET A, 5\n"), 0o644)).To(Succeed())

	cmd := rootCmd()
	cmd.SetArgs([]string{"assemble", src, "-o", out})
	g.Expect(cmd.Execute()).To(Succeed())

	data, err := os.ReadFile(out)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(data).To(Equal([]byte{0x98, 0x01}))
}

func TestRunCommandHaltsOnReservedOpcode(t *testing.T) {
	g := NewWithT(t)

	dir := t.TempDir()
	img := filepath.Join(dir, "prog.bin")
	g.Expect(os.WriteFile(img, []byte{0x00, 0x00}, 0o644)).To(Succeed())

	var stdout bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"run", img, "--clock-rate", "0", "--with-clock=false"})
	g.Expect(cmd.Execute()).To(Succeed())
}
