// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package grib

// MARS code tables. Numeric codes found in the ECMWF local-use section are
// mapped to the abbreviations MARS requests use.
//
// Sources:
//   - class:  http://apps.ecmwf.int/codes/grib/format/mars/class/
//   - stream: http://apps.ecmwf.int/codes/grib/format/mars/stream/
//   - type:   https://codes.ecmwf.int/grib/format/mars/type/

var marsClasses = map[int]string{
	1:   "od", // Operational archive
	2:   "rd", // Research department
	3:   "er", // 15 years reanalysis (ERA15)
	4:   "cs", // ECSN
	5:   "e4", // 40 years reanalysis (ERA40)
	6:   "dm", // DEMETER
	7:   "pv", // PROVOST
	8:   "el", // ELDAS
	9:   "to", // TOST
	10:  "co", // COSMO-LEPS
	11:  "en", // ENSEMBLES
	12:  "ti", // TIGGE
	13:  "me", // MERSEA
	14:  "ei", // ERA Interim
	15:  "sr", // Short-Range Ensemble Prediction System
	16:  "dt", // Data Targeting System
	17:  "la", // ALADIN-LAEF
	18:  "yt", // YOTC
	19:  "mc", // Copernicus Atmosphere Monitoring Service (CAMS, previously MACC)
	20:  "pe", // Permanent experiments
	21:  "em", // ERA-CLIM model integration for the 20th-century (ERA-20CM)
	22:  "e2", // ERA-CLIM reanalysis of the 20th-century using surface observations only (ERA-20C)
	23:  "ea", // ERA5
	24:  "ep", // ERA-CLIM2 coupled reanalysis of the 20th-century (CERA-20C)
	25:  "rm", // EURO4M
	26:  "nr", // NOAA/CIRES 20th Century Reanalysis version II
	27:  "s2", // Sub-seasonal to seasonal prediction project (S2S)
	28:  "j5", // Japanese 55 year Reanalysis (JRA55)
	29:  "ur", // UERRA
	30:  "et", // ERA-CLIM2 coupled reanalysis of the satellite era (CERA-SAT)
	31:  "c3", // Copernicus Climate Change Service (C3S)
	32:  "yp", // YOPP
	33:  "lp", // ERA5/LAND
	34:  "lw", // WMO Lead Centre Wave Forecast Verification
	35:  "ce", // Copernicus Emergency Management Service (CEMS)
	36:  "cr", // Copernicus Atmosphere Monitoring Service (CAMS) Research
	37:  "rr", // Copernicus Regional ReAnalysis (CARRA/CERRA)
	38:  "ul", // Project ULYSSES
	39:  "wv", // Global Wildfire Information System
	40:  "e6", // ERA6
	41:  "l6", // ERA6/LAND
	42:  "ef", // EFAS (European flood awareness system)
	43:  "gf", // GLOFAS (Global flood awareness system)
	44:  "gg", // Greenhouse Gases
	45:  "ml", // Machine learning
	46:  "d1", // Destination Earth
	47:  "o6", // Ocean ReAnalysis 6
	48:  "eh", // C3S European hydrology
	49:  "gh", // C3S Global hydrology
	50:  "ci", // CERISE project
	51:  "ai", // Operational AIFS
	99:  "te", // Test
	100: "at", // Austria
	101: "be", // Belgium
	102: "hr", // Croatia
	103: "dk", // Denmark
	104: "fi", // Finland
	105: "fr", // France
	106: "de", // Germany
	107: "gr", // Greece
	108: "hu", // Hungary
	109: "is", // Iceland
	110: "ie", // Ireland
	111: "it", // Italy
	112: "nl", // Netherlands
	113: "no", // Norway
	114: "pt", // Portugal
	115: "si", // Slovenia
	116: "es", // Spain
	117: "se", // Sweden
	118: "ch", // Switzerland
	119: "tr", // Turkey
	120: "uk", // United Kingdom
	121: "ms", // Member States projects
	199: "ma", // Metaps
}

var marsStreams = map[int]string{
	1022: "fsob", // Forecast sensitivity to observations
	1023: "fsow", // Forecast sensitivity to observations wave
	1024: "dahc", // Daily archive hindcast
	1025: "oper", // Atmospheric model
	1026: "scda", // Atmospheric model (short cutoff)
	1027: "scwv", // Wave model (short cutoff)
	1028: "dcda", // Atmospheric model (delayed cutoff)
	1029: "dcwv", // Wave model (delayed cutoff)
	1030: "enda", // Ensemble data assimilation
	1032: "efho", // Ensemble forecast hindcast overlap
	1033: "enfh", // Ensemble forecast hindcasts
	1034: "efov", // Ensemble forecast overlap
	1035: "enfo", // Ensemble prediction system
	1036: "sens", // Sensitivity forecast
	1037: "maed", // Multianalysis ensemble data
	1038: "amap", // Analysis for multianalysis project
	1039: "efhc", // Ensemble forecast hindcasts (obsolete)
	1040: "efhs", // Ensemble forecast hindcast statistics
	1041: "toga", // TOGA
	1042: "cher", // Chernobyl
	1043: "mnth", // Monthly means
	1044: "supd", // Deterministic supplementary data
	1045: "wave", // Wave model
	1046: "ocea", // Ocean
	1047: "fgge", // FGGE
	1050: "egrr", // Bracknell
	1051: "kwbc", // Washington
	1052: "edzw", // Offenbach
	1053: "lfpw", // Toulouse
	1054: "rjtd", // Tokyo
	1055: "cwao", // Montreal
	1056: "ammc", // Melbourne
	1057: "efas", // European flood awareness system (EFAS)
	1058: "efse", // European flood awareness system (EFAS) seasonal forecasts
	1059: "efcl", // European flood awareness system (EFAS) climatology
	1060: "wfas", // Global flood awareness system (GLOFAS)
	1061: "wfcl", // Global flood awareness system (GLOFAS) climatology
	1062: "wfse", // Global flood awareness system (GLOFAS) seasonal forecasts
	1063: "efrf", // European flood awareness system (EFAS) reforecasts
	1064: "efsr", // European flood awareness system (EFAS) seasonal reforecasts
	1065: "wfrf", // Global flood awareness system (GLOFAS) reforecasts
	1066: "wfsr", // Global flood awareness system (GLOFAS) seasonal reforecasts
	1070: "msdc", // Monthly standard deviation and covariance
	1071: "moda", // Monthly means of daily means
	1072: "monr", // Monthly means using G. Boer's step function
	1073: "mnvr", // Monthly variance and covariance data using G. Boer's step function
	1074: "msda", // Monthly standard deviation and covariance of daily means
	1075: "mdfa", // Monthly means of daily forecast accumulations
	1076: "dacl", // Daily climatology
	1077: "wehs", // Wave ensemble forecast hindcast statistics
	1078: "ewho", // Ensemble forecast wave hindcast overlap
	1079: "enwh", // Ensemble forecast wave hindcasts
	1080: "wamo", // Wave monthly means
	1081: "waef", // Wave ensemble forecast
	1082: "wasf", // Wave seasonal forecast
	1083: "mawv", // Multianalysis wave data
	1084: "ewhc", // Wave ensemble forecast hindcast (obsolete)
	1085: "wvhc", // Wave hindcast
	1086: "weov", // Wave ensemble forecast overlap
	1087: "wavm", // Wave model (standalone)
	1088: "ewda", // Ensemble wave data assimilation
	1089: "dacw", // Daily climatology wave
	1090: "seas", // Seasonal forecast
	1091: "sfmm", // Seasonal forecast atmospheric monthly means
	1092: "swmm", // Seasonal forecast wave monthly means
	1093: "mofc", // Monthly forecast
	1094: "mofm", // Monthly forecast means
	1095: "wamf", // Wave monthly forecast
	1096: "wmfm", // Wave monthly forecast means
	1097: "smma", // Seasonal monthly means anomalies
	1098: "clte", // Climate run output
	1099: "clmn", // Climate run monthly means output
	1100: "dame", // Daily means
	1110: "seap", // Sensitive area prediction
	1120: "eefh", // Extended ensemble forecast hindcast
	1121: "eehs", // Extended ensemble forecast hindcast statistics
	1122: "eefo", // Extended ensemble prediction system
	1123: "weef", // Wave extended ensemble forecast
	1124: "weeh", // Wave extended ensemble forecast hindcast
	1125: "wees", // Wave extended ensemble forecast hindcast statistics
	1200: "mnfc", // Real-time
	1201: "mnfh", // Hindcasts
	1202: "mnfa", // Anomalies
	1203: "mnfw", // Wave real-time
	1204: "mfhw", // Monthly forecast hindcasts wave
	1205: "mfaw", // Wave anomalies
	1206: "mnfm", // Real-time means
	1207: "mfhm", // Hindcast means
	1208: "mfam", // Anomaly means
	1209: "mfwm", // Wave real-time means
	1210: "mhwm", // Wave hindcast means
	1211: "mawm", // Wave anomaly means
	1220: "mmsf", // Multi-model seasonal forecast
	1221: "msmm", // Multi-model seasonal forecast atmospheric monthly means
	1222: "wams", // Multi-model seasonal forecast wave
	1223: "mswm", // Multi-model seasonal forecast wave monthly means
	1224: "mmsa", // Multi-model seasonal forecast monthly anomalies
	1230: "mmaf", // Multi-model multi-annual forecast
	1231: "mmam", // Multi-model multi-annual forecast means
	1232: "mmaw", // Multi-model multi-annual forecast wave
	1233: "mmwm", // Multi-model multi-annual forecast wave means
	1240: "esmm", // Combined multi-model monthly means
	1241: "ehmm", // Combined multi-model hindcast monthly means
	1242: "edmm", // Ensemble data assimilation monthly means
	1243: "edmo", // Ensemble data assimilation monthly means of daily means
	1244: "ewmo", // Ensemble wave data assimilation monthly means of daily means
	1245: "ewmm", // Ensemble wave data assimilation monthly means
	1246: "espd", // Ensemble supplementary data
	1247: "lwda", // Long window daily archive
	1248: "lwwv", // Long window wave
	1249: "elda", // Ensemble Long window Data Assimilation
	1250: "ewla", // Ensemble Wave Long window data Assimilation
	1251: "wamd", // Wave monthly means of daily means
	1252: "gfas", // Global fire assimilation system
	1253: "ocda", // Ocean data assimilation
	1254: "olda", // Ocean Long window data assimilation
	1255: "gfra", // Global Fire assimilation system reanalysis
	1256: "rfsd", // Retrospective forcing and simulation data
	2231: "cnrm", // Meteo France climate centre
	2232: "mpic", // Max Plank Institute
	2233: "ukmo", // UKMO climate centre
}

var marsTypes = map[int]string{
	1:   "fg",     // First guess
	2:   "an",     // Analysis
	3:   "ia",     // Initialised analysis
	4:   "oi",     // Oi analysis
	5:   "3v",     // 3d variational analysis
	6:   "4v",     // 4d variational analysis
	7:   "3g",     // 3d variational gradients
	8:   "4g",     // 4d variational gradients
	9:   "fc",     // Forecast
	10:  "cf",     // Control forecast
	11:  "pf",     // Perturbed forecast
	12:  "ef",     // Errors in first guess
	13:  "ea",     // Errors in analysis
	14:  "cm",     // Cluster means
	15:  "cs",     // Cluster std deviations
	16:  "fp",     // Forecast probability
	17:  "em",     // Ensemble mean
	18:  "es",     // Ensemble standard deviation
	19:  "fa",     // Forecast accumulation
	20:  "cl",     // Climatology
	21:  "si",     // Climate simulation
	22:  "s3",     // Climate 30 days simulation
	23:  "ed",     // Empirical distribution
	24:  "tu",     // Tubes
	25:  "ff",     // Flux forcing realtime
	26:  "of",     // Ocean forward
	27:  "efi",    // Extreme forecast index
	28:  "efic",   // Extreme forecast index control
	29:  "pb",     // Probability boundaries
	30:  "ep",     // Event probability
	31:  "bf",     // Bias-corrected forecast
	32:  "cd",     // Climate distribution
	33:  "4i",     // 4D analysis increments
	34:  "go",     // Gridded observations
	35:  "me",     // Model errors
	36:  "pd",     // Probability distribution
	37:  "ci",     // Cluster information
	38:  "sot",    // Shift of Tail
	39:  "eme",    // Ensemble data assimilation model errors
	40:  "im",     // Images
	42:  "sim",    // Simulated images
	43:  "wem",    // Weighted ensemble mean
	44:  "wes",    // Weighted ensemble standard deviation
	45:  "cr",     // Cluster representative
	46:  "ses",    // Scaled ensemble standard deviation
	47:  "taem",   // Time average ensemble mean
	48:  "taes",   // Time average ensemble standard deviation
	50:  "sg",     // Sensitivity gradient
	52:  "sf",     // Sensitivity forecast
	60:  "pa",     // Perturbed analysis
	61:  "icp",    // Initial condition perturbation
	62:  "sv",     // Singular vector
	63:  "as",     // Adjoint singular vector
	64:  "svar",   // Signal variance
	65:  "cv",     // Calibration/Validation forecast
	70:  "or",     // Ocean reanalysis
	71:  "fx",     // Flux forcing
	72:  "fu",     // Fill-up
	73:  "fso",    // Simulations with forcing
	74:  "tpa",    // Time processed analysis
	75:  "if",     // Interim forecast
	80:  "fcmean", // Forecast mean
	81:  "fcmax",  // Forecast maximum
	82:  "fcmin",  // Forecast minimum
	83:  "fcstdev", // Forecast standard deviation
	86:  "hcmean", // Hindcast climate mean
	87:  "ssd",    // Simulated satellite data
	88:  "gsd",    // Gridded satellite data
	89:  "ga",     // GFAS analysis
	90:  "gai",    // Gridded analysis input
	256: "ob",     // Observations
	257: "fb",     // Feedback
	258: "ai",     // Analysis input
	259: "af",     // Analysis feedback
	260: "ab",     // Analysis bias
	261: "tf",     // Trajectory forecast
	262: "mfb",    // MonDB feedback
	263: "ofb",    // ODB feedback
	264: "oai",    // ODB analysis input
	265: "sfb",    // Summary feedback
	266: "fsoifb", // Forecast sensitivity to observations impact feedback
	267: "fcdfb",  // Forecast departures feedback
}

// Level type tables, per edition, mapped to MARS levtype abbreviations.

var grib1LevelTypes = map[int]string{
	1:   "sfc", // Surface
	100: "pl",  // Isobaric surface (hPa)
	102: "sfc", // Mean sea level
	103: "sfc", // Fixed height above mean sea level
	105: "sfc", // Fixed height above ground
	109: "ml",  // Hybrid model level
	113: "pt",  // Isentropic (theta) surface
	117: "pv",  // Potential vorticity surface
	160: "dp",  // Depth below sea level
}

var grib2LevelTypes = map[int]string{
	1:   "sfc", // Ground or water surface
	100: "pl",  // Isobaric surface (Pa)
	101: "sfc", // Mean sea level
	103: "sfc", // Fixed height above ground
	105: "ml",  // Hybrid model level
	106: "sfc", // Depth below land surface
	107: "pt",  // Isentropic (theta) surface
	109: "pv",  // Potential vorticity surface
	160: "dp",  // Depth below sea level
}

// Grid template names.

var grib1GridTypes = map[int]string{
	0:  "regular_ll",
	4:  "regular_gg",
	10: "rotated_ll",
	14: "rotated_gg",
	50: "sh",
}

var grib2GridTypes = map[int]string{
	0:  "regular_ll",
	1:  "rotated_ll",
	40: "regular_gg",
	41: "rotated_gg",
	50: "sh",
}
