package home

const bannerFull = `██████╗  █████╗ ████████╗██╗  ██╗██╗    ██╗██╗███████╗███████╗
██╔══██╗██╔══██╗╚══██╔══╝██║  ██║██║    ██║██║██╔════╝██╔════╝
██████╔╝███████║   ██║   ███████║██║ █╗ ██║██║███████╗█████╗
██╔═══╝ ██╔══██║   ██║   ██╔══██║██║███╗██║██║╚════██║██╔══╝
██║     ██║  ██║   ██║   ██║  ██║╚███╔███╔╝██║███████║███████╗
╚═╝     ╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝ ╚══╝╚══╝ ╚═╝╚══════╝╚══════╝`

const bannerCompact = "P · A · T · H · W · I · S · E"

// bannerWidth is the widest line of bannerFull.
const bannerWidth = 62
