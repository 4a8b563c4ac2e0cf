package homepage

// TaxonomyEntry pairs a section name with its keyword phrases. Entry order
// matters twice: more specific sections come before generic ones, and on a
// score tie the earlier entry keeps the product.
type TaxonomyEntry struct {
	Section string
	Phrases []string
}

// DefaultTaxonomy returns the built-in keyword taxonomy. More specific
// phrases come before generic ones; multi-word phrases score higher when
// matched.
func DefaultTaxonomy() []TaxonomyEntry {
	return []TaxonomyEntry{
		// Phones & Tablets
		{"Smartphones & Phones", []string{
			"smartphone", "iphone", "samsung galaxy", "mobile phone", "android phone",
			"cell phone", "nokia", "tecno", "infinix", "itel", "redmi", "oneplus", "oppo", "vivo", "phone",
		}},
		{"Tablets & iPads", []string{"tablet", "ipad", "android tablet", "kindle", "fire hd"}},
		// Computers
		{"Laptops & Computers", []string{
			"laptop", "notebook", "macbook", "chromebook", "desktop", "pc computer", "gaming laptop", "ultrabook",
		}},
		// Audio
		{"Headphones & Audio", []string{
			"headphone", "earphone", "earbuds", "airpods", "earpods", "wireless earphone",
			"neckband", "bluetooth speaker", "soundbar", "subwoofer", "home theater", "speaker",
		}},
		// Wearables
		{"Smartwatches", []string{
			"smartwatch", "smart watch", "fitness tracker", "smart band", "apple watch", "galaxy watch", "fit band",
		}},
		// Cameras
		{"Cameras & Photography", []string{
			"camera", "dslr", "mirrorless", "action cam", "gopro", "lens", "tripod", "ring light", "studio light",
		}},
		// Chargers come after phones so "phone charger" doesn't land in phones
		{"Chargers & Cables", []string{
			"charger", "charging cable", "usb cable", "type-c cable", "lightning cable",
			"power bank", "powerbank", "fast charger", "wireless charger", "adapter plug", "extension cord",
		}},
		// TV
		{"TVs & Displays", []string{
			"smart tv", "led tv", "oled", "qled", "television", "monitor", "display screen", "projector", "tv",
		}},
		// Gaming
		{"Gaming", []string{
			"playstation", "ps4", "ps5", "xbox", "nintendo", "game controller", "joystick", "game console", "gaming",
		}},

		// Beauty
		{"Skincare", []string{
			"serum", "moisturizer", "moisturiser", "toner", "cleanser", "face wash", "sunscreen", "spf", "retinol",
			"hyaluronic", "vitamin c serum", "face mask", "eye cream", "exfoliant", "skin care", "skincare",
			"face cream", "anti aging", "brightening", "dark spot", "niacinamide", "aha bha", "face oil",
		}},
		{"Makeup & Cosmetics", []string{
			"lipstick", "lip gloss", "lip liner", "mascara", "eyeliner", "eyeshadow", "blush", "bronzer",
			"highlighter", "foundation", "concealer", "setting powder", "primer", "contour", "makeup",
			"cosmetic", "nail polish", "nail art", "makeup brush", "beauty blender", "false lash", "eyebrow",
		}},
		{"Perfume & Fragrance", []string{
			"perfume", "cologne", "fragrance", "eau de parfum", "eau de toilette",
			"body spray", "deodorant", "roll-on", "antiperspirant", "body mist", "scent",
		}},
		{"Hair Care", []string{
			"shampoo", "conditioner", "hair mask", "hair oil", "hair serum", "hair treatment",
			"deep conditioner", "leave-in", "hair growth", "wig", "weave", "hair extension", "lace front",
			"closure", "frontal", "braiding hair", "crochet hair", "hair gel", "edge control", "hair spray",
		}},
		{"Body Care", []string{
			"body butter", "body scrub", "body oil", "body cream", "shea butter", "cocoa butter",
			"stretch mark", "bath salt", "bath bomb", "shower gel", "body wash", "hand cream", "foot cream",
		}},

		// Jewellery & Accessories
		{"Jewellery", []string{
			"necklace", "bracelet", "ring", "earring", "jewelry", "jewellery", "pendant", "chain",
			"bangle", "anklet", "brooch", "choker", "locket", "diamond ring", "gold necklace", "silver bracelet",
		}},
		{"Watches", []string{
			"watch", "timepiece", "chronograph", "rolex", "casio", "citizen", "seiko", "fossil",
			"analog watch", "quartz watch",
		}},
		{"Sunglasses & Eyewear", []string{
			"sunglasses", "sunglass", "eyewear", "spectacle", "glasses frame", "reading glasses", "polarized",
		}},

		// Fashion
		{"Women's Clothing", []string{
			"dress", "ladies dress", "bodycon", "maxi dress", "blouse", "ladies top", "women top",
			"skirt", "jumpsuit", "romper", "ladies shirt", "two-piece set", "co-ord", "crop top",
			"women jacket", "ladies blazer",
		}},
		{"Men's Clothing", []string{
			"men shirt", "polo shirt", "men trouser", "chinos", "men jeans", "men suit", "men jacket",
			"men blazer", "men hoodie", "men shorts", "ankara", "native wear", "agbada",
		}},
		{"Clothing", []string{
			"hoodie", "sweatshirt", "jogger", "tracksuit", "t-shirt", "tshirt", "jeans", "denim",
			"shirt", "pyjama", "sleepwear", "lingerie", "underwear", "bra", "panties", "boxers",
		}},
		{"Women's Shoes", []string{
			"heels", "stiletto", "platform shoe", "wedge shoe", "women sneaker", "ladies sneaker",
			"women boot", "ankle boot", "women sandal", "flat shoe", "ballet flat", "women loafer", "mule",
		}},
		{"Men's Shoes", []string{
			"men sneaker", "men shoe", "men boot", "oxford shoe", "men loafer", "derby shoe",
			"brogues", "men sandal", "men flip flop",
		}},
		{"Shoes", []string{"sneaker", "boot", "sandal", "shoe", "slipper", "flip flop", "loafer"}},
		{"Bags & Purses", []string{
			"handbag", "purse", "tote bag", "clutch", "shoulder bag", "crossbody", "satchel",
			"women bag", "ladies bag", "backpack", "rucksack", "travel bag", "duffel", "wallet", "card holder",
		}},
		{"Fashion Accessories", []string{
			"belt", "hat", "cap", "beanie", "scarf", "hijab", "hair clip", "hair pin", "hair band",
			"headband", "tie", "bow tie", "cufflink", "glove", "mittens",
		}},

		// Home
		{"Kitchen & Cooking", []string{
			"cookware", "frying pan", "blender", "mixer", "juicer", "toaster", "kettle",
			"rice cooker", "air fryer", "microwave", "cutting board", "kitchen", "cooking",
			"bakeware", "mug", "plate", "bowl", "cutlery", "pot", "pan",
		}},
		{"Home Decor", []string{
			"home decor", "vase", "candle", "picture frame", "wall art", "mirror", "lamp",
			"throw pillow", "cushion", "rug", "carpet", "curtain", "tablecloth", "plant pot", "artificial flower",
		}},
		{"Bedding & Bath", []string{
			"bedsheet", "duvet", "pillow case", "towel", "bath towel", "comforter", "blanket",
			"mattress", "bed cover", "quilt",
		}},

		// Health & Fitness
		{"Fitness & Sports", []string{
			"dumbbell", "barbell", "resistance band", "yoga mat", "skipping rope", "jump rope",
			"fitness", "exercise", "workout", "protein", "supplement", "whey", "creatine",
			"sports bottle", "gym glove", "sports bag", "gym",
		}},
		{"Health & Wellness", []string{
			"vitamin", "herbal", "wellness", "massage", "blood pressure", "thermometer",
			"first aid", "pain relief", "essential oil", "health",
		}},

		// Baby & Kids
		{"Baby & Kids", []string{
			"baby", "infant", "toddler", "kids", "children", "toy", "doll", "stroller", "pram",
			"baby carrier", "nappy", "diaper", "baby wipe", "feeding bottle", "pacifier",
		}},
	}
}
