// um executes a Universal Machine program image.
//
// Usage:
//
//	um <program-image>
//
// The thin wrapper here does everything the engine itself is not
// responsible for: parsing the command line, reading the image file off
// disk, and wiring stdin/stdout to the machine's byte I/O surface. The
// engine (package vm) never touches the filesystem or os.Args.
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	"os"

	"um/vm"
)

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: um <program-image>")
		os.Exit(2)
	}

	image, err := loadImage(args[0])
	if err != nil {
		fmt.Printf("%s: No such file or directory\n", args[0])
		os.Exit(1)
	}

	in := bufio.NewReader(os.Stdin)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	m := vm.New(image, in, out)
	if err := m.Run(); err != nil {
		out.Flush()
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadImage reads a program-image file and decodes it into a word vector.
// The file's byte length must be a multiple of 4; each 4-byte group is one
// instruction word, big-endian (most significant byte first). This
// conversion happens exactly once, at load time, regardless of host
// endianness.
func loadImage(path string) ([]uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: No such file or directory", path)
	}

	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%s: %w (size %d)", path, vm.ErrImageUnaligned, len(data))
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(data[i*4 : i*4+4])
	}
	return words, nil
}
