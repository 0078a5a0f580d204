package heuristic

// Token lists matched case-insensitively against the User-Agent. The order of
// the lists and of the tokens within them is part of the decision contract:
// the first matching token names the reason.
var (
	socialCrawlers = []string{
		"facebookexternalhit", "facebot", "facebookcatalog", "twitterbot",
		"linkedinbot", "pinterest", "slackbot", "slack-imgproxy",
		"telegrambot", "whatsapp", "discordbot", "skypeuripreview",
		"redditbot", "tumblr", "vkshare", "snapchat", "embedly",
		"quora link preview", "outbrain", "flipboard",
	}

	searchEngines = []string{
		"googlebot", "google-inspectiontool", "googleother", "adsbot-google",
		"mediapartners-google", "apis-google", "feedfetcher-google",
		"bingbot", "bingpreview", "msnbot", "adidxbot", "slurp",
		"duckduckbot", "duckduckgo-favicons-bot", "baiduspider",
		"yandexbot", "yandeximages", "sogou", "exabot", "applebot",
		"petalbot", "seznambot", "qwantify", "naverbot", "yeti/",
		"coccocbot", "mojeekbot",
	}

	seoAnalytics = []string{
		"ahrefsbot", "semrushbot", "mj12bot", "dotbot", "rogerbot",
		"screaming frog", "seokicks", "blexbot", "serpstatbot",
		"dataforseobot", "megaindex", "linkdexbot", "siteauditbot",
		"sitebulb", "ccbot", "gptbot", "claudebot", "bytespider",
		"amazonbot", "barkrowler", "uptimerobot", "pingdom",
		"statuscake", "site24x7", "gtmetrix", "lighthouse",
	}

	headlessBrowsers = []string{
		"headlesschrome", "phantomjs", "slimerjs", "htmlunit",
		"puppeteer", "playwright", "nightmare", "zombie.js",
		"splash", "prerender",
	}

	genericTooling = []string{
		"bot", "crawler", "spider", "scraper", "curl", "wget",
		"python-requests", "python-urllib", "aiohttp", "httpx",
		"go-http-client", "java/", "okhttp", "apache-httpclient",
		"libwww-perl", "lwp::simple", "node-fetch", "axios", "got (",
		"undici", "guzzlehttp", "ruby", "php/", "postmanruntime",
		"insomnia", "httpie", "restsharp", "scrapy", "mechanize",
		"httpclient", "winhttp", "powershell",
	}

	securityScanners = []string{
		"nikto", "sqlmap", "nmap", "masscan", "zgrab", "nuclei",
		"acunetix", "nessus", "openvas", "qualys", "wpscan",
		"dirbuster", "gobuster", "ffuf", "burp", "zap/", "arachni",
		"w3af", "netsparker", "censys", "shodan", "expanse",
		"paloaltonetworks", "internet-measurement",
	}

	previewServices = []string{
		"preview", "fetcher", "linkcheck", "link-check", "validator",
		"urlscan", "virustotal", "safebrowsing", "phishtank",
		"proofpoint", "mimecast", "barracuda", "microsoft office",
		"ms-office", "outlook-", "google-safety", "checkmarknetwork",
	}

	automationIndicators = []string{
		"headless", "phantom", "selenium", "webdriver", "automation",
		"puppeteer", "playwright", "chromedriver", "geckodriver",
	}

	browserTokens = []string{
		"mozilla", "chrome", "safari", "firefox", "edge", "opera",
		"msie", "trident",
	}
)

type tokenList struct {
	name   string
	tokens []string
}

var blockedTokenLists = []tokenList{
	{name: "social crawler", tokens: socialCrawlers},
	{name: "search engine", tokens: searchEngines},
	{name: "seo/analytics", tokens: seoAnalytics},
	{name: "headless browser", tokens: headlessBrowsers},
	{name: "generic tooling", tokens: genericTooling},
	{name: "security scanner", tokens: securityScanners},
	{name: "preview service", tokens: previewServices},
}
