package imwatermark_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vearutop/imwatermark"
)

func ExampleEncodeText() {
	px := imwatermark.NewPixels(512, 512)
	for i := range px.Pix {
		px.Pix[i] = 128
	}

	marked, err := imwatermark.EncodeText(px, "TEST")
	if err != nil {
		fmt.Println(err)
		return
	}

	text, err := imwatermark.DecodeText(marked, 4)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(text)

	// Output:
	// TEST
}

func ExampleCapacity() {
	bits, err := imwatermark.Capacity(1024, 768)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(bits)

	// Output:
	// 12288
}

func ExampleEncodeFile() {
	in := filepath.FromSlash("testdata/photo.png")
	out := filepath.Join(os.TempDir(), "photo_wm.jpg")

	err := imwatermark.EncodeFile(in, out, func(o *imwatermark.FileOptions) {
		o.Text = "SDV2"
		o.Quality = 95
	})
	if err != nil {
		return
	}

	_, _ = imwatermark.DecodeFile(out, out+".txt", 4)
}
