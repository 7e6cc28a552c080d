package keyboard

// Grids of the built-in sets. Kept as interpreted strings because the QWERTY
// grid contains a backquote.
const (
	qwertyLower = "` 1 2 3 4 5 6 7 8 9 0 - =\n" +
		"q w e r t y u i o p [ ] \\\n" +
		"a s d f g h j k l ; '\n" +
		"z x c v b n m , . /\n"

	qwertyUpper = "~ ! @ # $ % ^ & * ( ) _ +\n" +
		"Q W E R T Y U I O P { } |\n" +
		"A S D F G H J K L : \"\n" +
		"Z X C V B N M < > ?\n"

	azertyLower = "² & é \" ' ( - è _ ç à ) =\n" +
		"a z e r t y u i o p ^ $\n" +
		"q s d f g h j k l m ù *\n" +
		"w x c v b n , ; : !\n"

	azertyUpper = "1 2 3 4 5 6 7 8 9 0 ° +\n" +
		"A Z E R T Y U I O P ¨ £\n" +
		"Q S D F G H J K L M % µ\n" +
		"W X C V B N ? . / §\n"

	// ¤ sits at an odd rune offset, between key cells, so it gets no key and
	// typing it raises ErrUnsupportedCharacter.
	azertyAlt = "~ # { [ | ` \\ ^ @ ] }\n" +
		"€                  ¤\n"
)

var builtinSets = map[string]*Set{
	"qwerty": NewSet("qwerty",
		MustFromGrid(qwertyLower, WithName("lower")),
		MustFromGrid(qwertyUpper, WithName("upper")),
	),
	"azerty": NewSet("azerty",
		MustFromGrid(azertyLower, WithName("lower")),
		MustFromGrid(azertyUpper, WithName("upper")),
		MustFromGrid(azertyAlt, WithName("alt")),
	),
}
