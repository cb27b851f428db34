package richtext_test

import (
	"fmt"

	"github.com/jcorbin/chatmark/richtext"
)

func Example() {
	segs := richtext.Format(`Welcome! **Check-in** is from 15:00.
The door code is _1234_, see [the guide](https://example.com/guide)
or https://example.com/faq for more.
<img src="map.png" alt="Map" style="max-width: 100%; border-radius: 8px"/>`)
	for i, seg := range segs {
		fmt.Printf("%v. %+v\n", i+1, seg)
	}

	// Output:
	// 1. PlainText text="Welcome! "
	// 2. Bold text="Check-in"
	// 3. PlainText text=" is from 15:00.\nThe door code is "
	// 4. Italic text="1234"
	// 5. PlainText text=", see "
	// 6. Link text="the guide" href="https://example.com/guide"
	// 7. PlainText text="\nor "
	// 8. Link text="https://example.com/faq" href="https://example.com/faq" external
	// 9. PlainText text=" for more.\n"
	// 10. Image src="map.png" alt="Map" style="border-radius: 8px; max-width: 100%"
}

func ExampleText() {
	fmt.Println(richtext.Text(richtext.Format("**Hi** _there_, [guest](https://example.com)!")))
	// Output: Hi there, guest!
}
